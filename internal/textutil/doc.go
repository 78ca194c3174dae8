// Package textutil provides the text folding shared by preference tags and the
// request matcher. Both sides of a substring match must be folded by the same
// routine, otherwise a tag typed with a composed accent would never match a
// song title stored with a decomposed one.
package textutil

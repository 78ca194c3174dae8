package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vibeline/internal/api"
)

var requestColumns = []string{"Pos", "ID", "Song", "Artist", "Status", "Bid", "Match", "Requested By", "Time"}

var requestAligns = []columnAlignment{
	alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft,
}

func buildRequestRows(items []api.RequestItem) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		match := ""
		if item.Match {
			match = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.ID,
			item.SongName,
			item.Artist,
			formatStatus(item.Status),
			item.BidLabel(),
			match,
			requesterLabel(item),
			formatRequestTime(item),
		})
	}
	return rows
}

func requesterLabel(item api.RequestItem) string {
	if name := strings.TrimSpace(item.UserName); name != "" {
		return name
	}
	if id := strings.TrimSpace(item.UserID); id != "" {
		return id
	}
	return "Guest"
}

func formatRequestTime(item api.RequestItem) string {
	if item.Timestamp <= 0 {
		return ""
	}
	return time.UnixMilli(item.Timestamp).Local().Format("15:04:05")
}

func formatStatus(status string) string {
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + status[1:]
}

func renderRequestDetail(item api.RequestItem) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%-13s %s\n", label+":", value)
	}
	line("ID", item.ID)
	line("Song", item.SongName)
	line("Artist", item.Artist)
	line("Status", formatStatus(item.Status))
	line("Vibe", item.Vibe)
	line("Note", item.Note)
	line("Requested By", requesterLabel(item))
	line("Bid", item.BidLabel())
	line("Match", yesNo(item.Match))
	if item.Timestamp > 0 {
		line("Requested", time.UnixMilli(item.Timestamp).Local().Format(time.RFC1123))
	}
	return b.String()
}

func buildStatsFooter(items []api.RequestItem) []string {
	pending, matched := 0, 0
	for _, item := range items {
		if item.Status == "pending" {
			pending++
		}
		if item.Match {
			matched++
		}
	}
	footer := make([]string, len(requestColumns))
	footer[1] = fmt.Sprintf("%d total", len(items))
	footer[4] = fmt.Sprintf("%d pending", pending)
	footer[6] = fmt.Sprintf("%d", matched)
	return footer
}

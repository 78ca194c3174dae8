package main

import (
	"context"

	"vibeline/internal/api"
)

type directBackend struct {
	service *api.QueueService
}

func (d directBackend) List(ctx context.Context, userID string) (*api.ListResponse, error) {
	resp, err := d.service.List(ctx, api.ListRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (d directBackend) Describe(ctx context.Context, id string) (*api.RequestItem, error) {
	item, err := d.service.Describe(ctx, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d directBackend) Submit(ctx context.Context, req api.SubmitRequest) (*api.RequestItem, error) {
	item, err := d.service.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d directBackend) Transition(ctx context.Context, id, status string) (*api.RequestItem, error) {
	item, err := d.service.Transition(ctx, api.TransitionRequest{ID: id, Status: status})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d directBackend) Clear(ctx context.Context) (*api.ClearResponse, error) {
	resp, err := d.service.Clear(ctx)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (d directBackend) Preferences(ctx context.Context) (*api.Preferences, error) {
	prefs, err := d.service.Preferences(ctx)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (d directBackend) AddTag(ctx context.Context, tag string) (*api.TagResponse, error) {
	resp, err := d.service.AddTag(ctx, api.TagRequest{Tag: tag})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (d directBackend) RemoveTag(ctx context.Context, tag string) (*api.TagResponse, error) {
	resp, err := d.service.RemoveTag(ctx, api.TagRequest{Tag: tag})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (d directBackend) Shoutout(ctx context.Context, id string) (*api.ShoutoutResponse, error) {
	resp, err := d.service.Shoutout(ctx, id)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

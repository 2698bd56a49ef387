package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

/*************
 * Fake HTTP layer
 *************/

type fakeDoer struct {
	mu sync.Mutex

	// inputs captured
	requests []client.Request

	// outputs preset
	body string
	err  error
}

func (f *fakeDoer) Do(_ context.Context, req client.Request) (*client.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &client.Response{StatusCode: 200, Body: []byte(f.body)}, nil
}

func (f *fakeDoer) DoJSON(ctx context.Context, req client.Request, out any) error {
	resp, err := f.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Body, out)
}

func (f *fakeDoer) last() client.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeDoer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

/*************
 * Fake session
 *************/

type fakeSession struct {
	gen       uint64
	lastToken string
	lastUser  *models.User
	updated   *models.User
	patches   []models.UserPatch

	// seenGen is the generation passed with the last update.
	seenGen uint64

	setErr    error
	updateErr error
}

func (f *fakeSession) SetAuth(_ context.Context, token string, user *models.User) error {
	f.lastToken = token
	f.lastUser = user
	return f.setErr
}

func (f *fakeSession) Generation() uint64 { return f.gen }

func (f *fakeSession) UpdateUser(_ context.Context, gen uint64, user *models.User) error {
	f.seenGen = gen
	f.updated = user
	return f.updateErr
}

func (f *fakeSession) MergeUser(_ context.Context, gen uint64, patch models.UserPatch) error {
	f.seenGen = gen
	f.patches = append(f.patches, patch)
	return f.updateErr
}

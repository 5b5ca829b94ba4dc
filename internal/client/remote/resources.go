package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

// Each resource exposes the same method set so the data access layer can
// treat them uniformly. Verbs a resource does not support return
// models.ErrUnsupportedVerb without a request.

type Sessions struct{ c *Client }

type Notes struct{ c *Client }

type Books struct{ c *Client }

type Timers struct{ c *Client }

func (c *Client) Sessions() *Sessions { return &Sessions{c: c} }

func (c *Client) Notes() *Notes { return &Notes{c: c} }

func (c *Client) Books() *Books { return &Books{c: c} }

func (c *Client) Timers() *Timers { return &Timers{c: c} }

func itemPath(base string, id int64) (string, error) {
	if id <= 0 {
		return "", errEmptyID
	}
	return fmt.Sprintf("%s/%d", base, id), nil
}

func list[W, M any](ctx context.Context, c *Client, path string, convert func(W) M) ([]M, error) {
	var wire []W
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]M, 0, len(wire))
	for _, w := range wire {
		out = append(out, convert(w))
	}
	return out, nil
}

func create[W, M any](ctx context.Context, c *Client, path string, body any, convert func(W) M) (M, error) {
	var env createdEnvelope[W]
	if err := c.do(ctx, http.MethodPost, path, body, &env); err != nil {
		var zero M
		return zero, err
	}
	return convert(env.Data), nil
}

func send[W, M any](ctx context.Context, c *Client, method, path string, body any, convert func(W) M) (M, error) {
	var env dataEnvelope[W]
	if err := c.do(ctx, method, path, body, &env); err != nil {
		var zero M
		return zero, err
	}
	return convert(env.Data), nil
}

func remove(ctx context.Context, c *Client, base string, id int64) error {
	path, err := itemPath(base, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Sessions

func (r *Sessions) List(ctx context.Context, _ string) ([]models.Session, error) {
	return list(ctx, r.c, "/sessions", sessionFromWire)
}

func (r *Sessions) Create(ctx context.Context, s models.Session) (models.Session, error) {
	return create(ctx, r.c, "/sessions", sessionToWire(s), sessionFromWire)
}

func (r *Sessions) Update(ctx context.Context, id int64, s models.Session) (models.Session, error) {
	path, err := itemPath("/sessions", id)
	if err != nil {
		return models.Session{}, err
	}
	return send(ctx, r.c, http.MethodPut, path, sessionToWire(s), sessionFromWire)
}

func (r *Sessions) Delete(ctx context.Context, id int64) error {
	return remove(ctx, r.c, "/sessions", id)
}

func (r *Sessions) Do(ctx context.Context, verb models.Verb, id int64) (models.Session, error) {
	path, err := itemPath("/sessions", id)
	if err != nil {
		return models.Session{}, err
	}
	switch verb {
	case models.VerbStart:
		return send(ctx, r.c, http.MethodPost, path+"/start", nil, sessionFromWire)
	case models.VerbComplete:
		return send(ctx, r.c, http.MethodPost, path+"/complete", nil, sessionFromWire)
	}
	return models.Session{}, models.ErrUnsupportedVerb
}

// CompleteWith completes a session crediting minutes instead of its
// planned duration.
func (r *Sessions) CompleteWith(ctx context.Context, id int64, minutes int) (models.Session, error) {
	path, err := itemPath("/sessions", id)
	if err != nil {
		return models.Session{}, err
	}
	return send(ctx, r.c, http.MethodPost, path+"/complete", durationBody{Duration: &minutes}, sessionFromWire)
}

// Notes

func (r *Notes) List(ctx context.Context, category string) ([]models.Note, error) {
	path := "/notes"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	return list(ctx, r.c, path, noteFromWire)
}

func (r *Notes) Create(ctx context.Context, n models.Note) (models.Note, error) {
	return create(ctx, r.c, "/notes", noteToWire(n), noteFromWire)
}

func (r *Notes) Update(ctx context.Context, id int64, n models.Note) (models.Note, error) {
	path, err := itemPath("/notes", id)
	if err != nil {
		return models.Note{}, err
	}
	return send(ctx, r.c, http.MethodPut, path, noteToWire(n), noteFromWire)
}

func (r *Notes) Delete(ctx context.Context, id int64) error {
	return remove(ctx, r.c, "/notes", id)
}

func (r *Notes) Do(context.Context, models.Verb, int64) (models.Note, error) {
	return models.Note{}, models.ErrUnsupportedVerb
}

// Books

func (r *Books) List(ctx context.Context, _ string) ([]models.Book, error) {
	return list(ctx, r.c, "/books", bookFromWire)
}

func (r *Books) Create(ctx context.Context, b models.Book) (models.Book, error) {
	return create(ctx, r.c, "/books", bookToWire(b), bookFromWire)
}

func (r *Books) Update(ctx context.Context, id int64, b models.Book) (models.Book, error) {
	path, err := itemPath("/books", id)
	if err != nil {
		return models.Book{}, err
	}
	return send(ctx, r.c, http.MethodPut, path, bookToWire(b), bookFromWire)
}

func (r *Books) Delete(ctx context.Context, id int64) error {
	return remove(ctx, r.c, "/books", id)
}

func (r *Books) Do(ctx context.Context, verb models.Verb, id int64) (models.Book, error) {
	if verb != models.VerbToggle {
		return models.Book{}, models.ErrUnsupportedVerb
	}
	path, err := itemPath("/books", id)
	if err != nil {
		return models.Book{}, err
	}
	return send(ctx, r.c, http.MethodPost, path+"/toggle", nil, bookFromWire)
}

// Timers are append-only on the server: no update or delete.

func (r *Timers) List(ctx context.Context, _ string) ([]models.Timer, error) {
	return list(ctx, r.c, "/timers", timerFromWire)
}

func (r *Timers) Create(ctx context.Context, t models.Timer) (models.Timer, error) {
	return create(ctx, r.c, "/timers", timerToWire(t), timerFromWire)
}

func (r *Timers) Update(context.Context, int64, models.Timer) (models.Timer, error) {
	return models.Timer{}, models.ErrUnsupportedVerb
}

func (r *Timers) Delete(context.Context, int64) error {
	return models.ErrUnsupportedVerb
}

func (r *Timers) Do(ctx context.Context, verb models.Verb, id int64) (models.Timer, error) {
	if verb != models.VerbComplete {
		return models.Timer{}, models.ErrUnsupportedVerb
	}
	path, err := itemPath("/timers", id)
	if err != nil {
		return models.Timer{}, err
	}
	return send(ctx, r.c, http.MethodPost, path+"/complete", nil, timerFromWire)
}


package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	base "github.com/goliatone/go-base"
	"github.com/goliatone/go-base/layering"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("state: snapshot not found")

var ErrETagMismatch = errors.New("state: etag mismatch")

var now = func() time.Time { return time.Now().UTC() }

// Ref identifies one persisted snapshot.
type Ref struct {
	Class string
	ID    string
}

// Identifier returns the canonical storage key "<class>/<id>".
func (r Ref) Identifier() (string, error) {
	if r.Class == "" {
		return "", fmt.Errorf("state: class is required")
	}
	if r.ID == "" {
		return "", fmt.Errorf("state: id is required for class %q", r.Class)
	}
	return r.Class + "/" + r.ID, nil
}

// RefOf returns the Ref addressing instance.
func RefOf(instance *base.Base) Ref {
	return Ref{Class: instance.Class().Name(), ID: instance.ID()}
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Snapshot is the persisted form of an instance.
type Snapshot struct {
	Options base.Tree `json:"options"`
	State   any       `json:"state,omitempty"`
}

// Store loads/saves one snapshot for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot Snapshot, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot Snapshot, meta Meta) (Meta, error)
}

// Save persists the live options and state of instance. meta.ETag, when
// set, must match the stored record. A new SnapshotID and ETag are assigned
// and UpdatedAt is stamped with the current time unless meta carries one.
func Save(ctx context.Context, store Store, instance *base.Base, meta Meta) (Meta, error) {
	if store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if instance == nil || instance.Destroyed() {
		return Meta{}, base.ErrDestroyed
	}
	ref := RefOf(instance)
	_, loaded, ok, err := store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %q: %w", ref.Class, err)
	}
	if ok && meta.ETag != "" && loaded.ETag != "" && meta.ETag != loaded.ETag {
		return loaded, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loaded.ETag)
	}

	snapshot := Snapshot{
		Options: layering.CloneTree(instance.Options()),
		State:   layering.Clone(instance.State()),
	}
	saveMeta := mergeMeta(loaded, meta)
	saveMeta.SnapshotID = uuid.NewString()
	saveMeta.ETag = uuid.NewString()
	saved, err := store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return loaded, fmt.Errorf("state: save %q: %w", ref.Class, err)
	}
	return saved, nil
}

// Restore constructs an instance of class from the snapshot stored for id.
// The stored options take precedence over the class defaults chain.
func Restore(ctx context.Context, store Store, class *base.Class, id string, opts ...base.Option) (*base.Base, Meta, error) {
	if store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	ref := Ref{Class: class.Name(), ID: id}
	snapshot, meta, ok, err := store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q: %w", ref.Class, err)
	}
	if !ok {
		return nil, Meta{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ref.Class, id)
	}
	opts = append([]base.Option{base.WithID(id)}, opts...)
	instance := base.New(class, snapshot.Options, opts...)
	if snapshot.State != nil {
		instance.SetState(snapshot.State)
	}
	return instance, meta, nil
}

func mergeMeta(stored, override Meta) Meta {
	out := stored
	out.UpdatedAt = override.UpdatedAt
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = now()
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

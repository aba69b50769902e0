package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// recordingLogger keeps every line per level.
type recordingLogger struct {
	noopLogger
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (l *recordingLogger) record(level, format string, v ...interface{}) {
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Debug(format string, v ...interface{}) { l.record("debug", format, v...) }
func (l *recordingLogger) Info(format string, v ...interface{})  { l.record("info", format, v...) }
func (l *recordingLogger) Warn(format string, v ...interface{})  { l.record("warn", format, v...) }
func (l *recordingLogger) Error(format string, v ...interface{}) { l.record("error", format, v...) }

type storageKey struct {
	collection, key, userID string
}

// mockStorage is an in-memory StorageAPI honouring conditional versions: "*"
// only creates, any other non-empty version must match the stored one.
type mockStorage struct {
	objects  map[storageKey]*api.StorageObject
	writes   int
	readErr  error
	writeErr error
	// beforeWrite runs once, ahead of the next write.
	beforeWrite func()
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[storageKey]*api.StorageObject)}
}

func (m *mockStorage) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := m.objects[storageKey{r.Collection, r.Key, r.UserID}]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (m *mockStorage) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if hook := m.beforeWrite; hook != nil {
		m.beforeWrite = nil
		hook()
	}
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	for _, w := range writes {
		obj, exists := m.objects[storageKey{w.Collection, w.Key, w.UserID}]
		switch {
		case w.Version == "":
		case w.Version == "*":
			if exists {
				return nil, runtime.ErrStorageRejectedVersion
			}
		case !exists || obj.Version != w.Version:
			return nil, runtime.ErrStorageRejectedVersion
		}
	}
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		m.writes++
		m.objects[storageKey{w.Collection, w.Key, w.UserID}] = &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    fmt.Sprintf("v%d", m.writes),
		}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: fmt.Sprintf("v%d", m.writes)})
	}
	return acks, nil
}

func (m *mockStorage) value(collection, key, userID string) (string, bool) {
	obj, ok := m.objects[storageKey{collection, key, userID}]
	if !ok {
		return "", false
	}
	return obj.Value, true
}

func apiObject(value string) *api.StorageObject {
	return &api.StorageObject{Value: value}
}

// mockInitializer records RPC registrations. Other Initializer methods are not used.
type mockInitializer struct {
	runtime.Initializer
	rpcs map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)
}

func (m *mockInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	if m.rpcs == nil {
		m.rpcs = make(map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error))
	}
	m.rpcs[id] = fn
	return nil
}

package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := NewLogRecorder(logging.NewTextLogger(&buf, slog.LevelInfo))

	rec.Record(context.Background(), Record{Event: UserLogin, UserID: "u1", Email: "a@b.c"})
	out := buf.String()
	assert.Contains(t, out, "event=USER_LOGIN")
	assert.Contains(t, out, "userId=u1")
	assert.Contains(t, out, "email=a@b.c")
	assert.Contains(t, out, "component=audit")

	buf.Reset()
	rec.Record(context.Background(), Record{Event: UserLogout, UserID: "u1"})
	assert.Contains(t, buf.String(), "event=USER_LOGOUT")
	assert.NotContains(t, buf.String(), "email=")
}

func TestRecorderFunc(t *testing.T) {
	var got []Record
	var r Recorder = RecorderFunc(func(_ context.Context, rec Record) { got = append(got, rec) })

	r.Record(context.Background(), Record{Event: TokenLoaded, UserID: "u2"})
	assert.Equal(t, []Record{{Event: TokenLoaded, UserID: "u2"}}, got)
}

func TestNewLogRecorder_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLogRecorder(nil).Record(context.Background(), Record{Event: UserLogin})
	})
}

package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeNotifier struct {
	fail  int
	calls int
	texts []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.calls++
	if f.calls <= f.fail {
		return errors.New("unavailable")
	}
	f.texts = append(f.texts, text)
	return nil
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		f := &fakeNotifier{fail: 2}
		r := WithRetry(f, 3, time.Millisecond)
		require.NoError(t, r.Notify(context.Background(), "hi"))
		assert.Equal(t, 3, f.calls)
		assert.Equal(t, []string{"hi"}, f.texts)
	})

	t.Run("gives up", func(t *testing.T) {
		f := &fakeNotifier{fail: 5}
		r := WithRetry(f, 3, time.Millisecond)
		assert.Error(t, r.Notify(context.Background(), "hi"))
		assert.Equal(t, 3, f.calls)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		f := &fakeNotifier{fail: 5}
		r := WithRetry(f, 3, time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, r.Notify(ctx, "hi"), context.Canceled)
		assert.Equal(t, 1, f.calls)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		f := &fakeNotifier{}
		require.NoError(t, WithRetry(f, 0, 0).Notify(context.Background(), "hi"))
		assert.Equal(t, 1, f.calls)
	})
}

func TestMirror(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("mirror failure does not fail delivery", func(t *testing.T) {
		primary := &fakeNotifier{}
		broken := &fakeNotifier{fail: 1}
		ok := &fakeNotifier{}
		err := NewMirror(primary, logger, broken, ok).Notify(context.Background(), "report")
		require.NoError(t, err)
		assert.Equal(t, []string{"report"}, primary.texts)
		assert.Equal(t, []string{"report"}, ok.texts)
		assert.Equal(t, 1, broken.calls)
	})

	t.Run("primary failure is returned", func(t *testing.T) {
		primary := &fakeNotifier{fail: 1}
		mail := &fakeNotifier{}
		err := NewMirror(primary, logger, mail).Notify(context.Background(), "report")
		assert.Error(t, err)
		assert.Equal(t, []string{"report"}, mail.texts)
	})

	t.Run("no mirrors", func(t *testing.T) {
		primary := &fakeNotifier{}
		require.NoError(t, NewMirror(primary, logger).Notify(context.Background(), "report"))
		assert.Equal(t, 1, primary.calls)
	})
}

func TestMail(t *testing.T) {
	conf := MailConfig{Host: "smtp.example.com", Port: 465, From: "bot@example.com", To: "op@example.com"}
	assert.True(t, conf.Enabled())
	assert.False(t, MailConfig{Host: "smtp.example.com"}.Enabled())

	var (
		from string
		to   []string
		body bytes.Buffer
	)
	m := NewMail(conf)
	m.send = func(msgs ...*gomail.Message) error {
		return gomail.Send(gomail.SendFunc(func(f string, t []string, msg io.WriterTo) error {
			from, to = f, t
			_, err := msg.WriteTo(&body)
			return err
		}), msgs...)
	}

	require.NoError(t, m.Notify(context.Background(), "STOCK UPDATED\nCurrent stock  : 4"))
	assert.Equal(t, "bot@example.com", from)
	assert.Equal(t, []string{"op@example.com"}, to)
	assert.Contains(t, body.String(), "Subject: STOCK UPDATED")
	assert.Contains(t, body.String(), "Current stock  : 4")
	assert.NotContains(t, body.String(), "Cc:")

	conf.CC = "backup@example.com"
	m.conf = conf
	body.Reset()
	require.NoError(t, m.Notify(context.Background(), "STOCK UPDATED"))
	assert.Equal(t, []string{"op@example.com", "backup@example.com"}, to)
	assert.Contains(t, body.String(), "Cc: backup@example.com")
}

package notifications

import (
	"errors"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"anonboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func newCapturingMailer(sendErr error) (*Mailer, chan capturedMail) {
	got := make(chan capturedMail, 1)
	m := NewMailer(MailerConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "board@example.com",
		Pass: "secret",
		Dest: "owner@example.com",
	})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		got <- capturedMail{addr: addr, from: from, to: to, msg: msg}
		return sendErr
	}
	return m, got
}

func waitForMail(t *testing.T, got chan capturedMail) capturedMail {
	t.Helper()
	select {
	case mail := <-got:
		return mail
	case <-time.After(2 * time.Second):
		t.Fatal("no mail delivered")
		return capturedMail{}
	}
}

func TestNotifyNewPostSendsMail(t *testing.T) {
	m, got := newCapturingMailer(nil)

	m.NotifyNewPost(&models.Post{
		ID:            "p1",
		Title:         "First snow",
		Content:       "It finally snowed today.",
		DisplayAuthor: "Anonymous",
		Tags:          []string{"notice"},
	})

	mail := waitForMail(t, got)
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, "board@example.com", mail.from)
	require.Equal(t, []string{"owner@example.com"}, mail.to)

	body := string(mail.msg)
	assert.Contains(t, body, "Subject: New post: [notice] First snow")
	assert.Contains(t, body, "It finally snowed today.")
	assert.Contains(t, body, "Author: Anonymous")
}

func TestNotifyNewPostNoTags(t *testing.T) {
	m, got := newCapturingMailer(nil)

	m.NotifyNewPost(&models.Post{ID: "p2", Title: "Hello", Content: "hi", Tags: []string{}})

	mail := waitForMail(t, got)
	assert.Contains(t, string(mail.msg), "Subject: New post: Hello")
	assert.NotContains(t, string(mail.msg), "[]")
}

func TestNotifyNewPostTruncatesPreview(t *testing.T) {
	m, got := newCapturingMailer(nil)

	long := make([]rune, 0, 500)
	for i := 0; i < 500; i++ {
		long = append(long, 'x')
	}
	m.NotifyNewPost(&models.Post{ID: "p3", Title: "Long", Content: string(long)})

	mail := waitForMail(t, got)
	body := string(mail.msg)
	assert.Contains(t, body, "...")
	assert.NotContains(t, body, string(long))
}

func TestNotifyNewPostDeliveryErrorDoesNotPanic(t *testing.T) {
	m, got := newCapturingMailer(errors.New("connection refused"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.NotifyNewPost(&models.Post{ID: "p4", Title: "Broken", Content: "x"})
	}()
	wg.Wait()

	waitForMail(t, got)
}

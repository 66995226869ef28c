package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotifierSend(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"chat_id":                  r.PostFormValue("chat_id"),
			"text":                     r.PostFormValue("text"),
			"parse_mode":               r.PostFormValue("parse_mode"),
			"disable_web_page_preview": r.PostFormValue("disable_web_page_preview"),
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewNotifier("bot-token", server.URL)

	if err := n.Send(context.Background(), "chat-42", "*digest*"); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotForm["chat_id"] != "chat-42" {
		t.Fatalf("unexpected chat_id: %s", gotForm["chat_id"])
	}
	if gotForm["text"] != "*digest*" {
		t.Fatalf("unexpected text: %s", gotForm["text"])
	}
	if gotForm["parse_mode"] != "Markdown" {
		t.Fatalf("unexpected parse_mode: %s", gotForm["parse_mode"])
	}
	if gotForm["disable_web_page_preview"] != "true" {
		t.Fatalf("unexpected preview flag: %s", gotForm["disable_web_page_preview"])
	}
}

func TestNotifierMisconfigured(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "").Send(context.Background(), "chat", "text"); err == nil {
		t.Fatal("expected error without bot token")
	}
	if err := NewNotifier("token", "").Send(context.Background(), "", "text"); err == nil {
		t.Fatal("expected error without channel")
	}
}

func TestNotifierServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier("bot-token", server.URL)

	if err := n.Send(context.Background(), "chat-42", "digest"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

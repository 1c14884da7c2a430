package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"headshots/internal/domain"
	"headshots/internal/webhook"
)

func TestStyleTitle(t *testing.T) {
	cases := map[string]string{
		"business_formal": "Business Formal",
		"linkedin":        "Linkedin",
		"black_white":     "Black White",
	}
	for tag, want := range cases {
		if got := StyleTitle(tag); got != want {
			t.Fatalf("StyleTitle(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestStyleTitleConcurrent(t *testing.T) {
	// Completion notices and order reads title styles from concurrent
	// request goroutines; run under -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := StyleTitle("business_formal"); got != "Business Formal" {
					t.Errorf("StyleTitle = %q, want Business Formal", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestLogNotifierSends(t *testing.T) {
	n := NewLogNotifier(zerolog.Nop())
	err := n.SendCompletionNotice(context.Background(), webhook.CompletionNotice{
		Email:      "customer@example.com",
		Locale:     "en",
		ResultURL:  "https://headshots.example.com/dashboard?order=o1",
		AssetCount: 40,
		Styles:     []domain.Style{domain.StyleBusinessFormal, domain.StyleOutdoor},
	})
	if err != nil {
		t.Fatalf("SendCompletionNotice returned error: %v", err)
	}
}

func TestLogNotifierHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := NewLogNotifier(zerolog.Nop())
	if err := n.SendCompletionNotice(ctx, webhook.CompletionNotice{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Charlelielataste/weeding/internal/models"
)

func TestGetOrCreate_CreatesOnce(t *testing.T) {
	r := NewRegistry(3)

	s1, created, err := r.GetOrCreate("up1", "a.jpg", "image/jpeg", models.KindPhoto, 4)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("first call should report created")
	}

	s2, created, err := r.GetOrCreate("up1", "ignored.jpg", "ignored", models.KindPhoto, 99)
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("second call should not report created")
	}
	if s1 != s2 {
		t.Error("second call should return the same session")
	}
	if s2.TotalChunks != 4 {
		t.Errorf("TotalChunks = %d, the first chunk's declaration should win", s2.TotalChunks)
	}
}

func TestCeiling_NthAcceptedNPlusFirstRejected(t *testing.T) {
	const ceiling = 3
	r := NewRegistry(ceiling)

	for i := 0; i < ceiling; i++ {
		if _, _, err := r.GetOrCreate(fmt.Sprintf("up%d", i), "f.jpg", "", models.KindPhoto, 2); err != nil {
			t.Fatalf("session %d should be admitted: %v", i, err)
		}
	}

	_, _, err := r.GetOrCreate("one-too-many", "f.jpg", "", models.KindPhoto, 2)
	if !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("err = %v, want ErrTooManySessions", err)
	}

	// Chunks of existing sessions are still accepted at the ceiling
	if _, _, err := r.GetOrCreate("up0", "f.jpg", "", models.KindPhoto, 2); err != nil {
		t.Errorf("existing session refused at ceiling: %v", err)
	}

	// Removing one frees a slot
	r.Remove("up0")
	if _, _, err := r.GetOrCreate("one-too-many", "f.jpg", "", models.KindPhoto, 2); err != nil {
		t.Errorf("admission after removal failed: %v", err)
	}
}

func TestCeiling_NoOvershootUnderRace(t *testing.T) {
	const ceiling = 5
	r := NewRegistry(ceiling)

	var wg sync.WaitGroup
	admitted := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("up%d", n)
			if _, created, err := r.GetOrCreate(id, "f.jpg", "", models.KindPhoto, 2); err == nil && created {
				admitted <- id
			}
		}(i)
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	if count != ceiling {
		t.Errorf("admitted %d sessions, want exactly %d", count, ceiling)
	}
	if r.Count() != ceiling {
		t.Errorf("Count() = %d, want %d", r.Count(), ceiling)
	}
}

func TestMarkReceived_DuplicateIndexDoesNotDoubleCount(t *testing.T) {
	r := NewRegistry(1)
	s, _, _ := r.GetOrCreate("up", "f.mp4", "video/mp4", models.KindVideo, 4)

	for _, idx := range []int{0, 1, 2, 2} {
		if _, final, err := s.MarkReceived(idx); err != nil {
			t.Fatalf("MarkReceived(%d): %v", idx, err)
		} else if final {
			t.Fatalf("MarkReceived(%d) reported completion with only 3 distinct indices", idx)
		}
	}

	if got := s.ReceivedCount(); got != 3 {
		t.Errorf("ReceivedCount = %d, want 3 (index 2 counted once)", got)
	}

	count, final, err := s.MarkReceived(3)
	if err != nil {
		t.Fatalf("MarkReceived(3): %v", err)
	}
	if !final {
		t.Error("final chunk should complete the session")
	}
	if count != 4 {
		t.Errorf("count = %d, want 4 (not 5)", count)
	}
}

func TestMarkReceived_IndexOutOfRange(t *testing.T) {
	r := NewRegistry(1)
	s, _, _ := r.GetOrCreate("up", "f.jpg", "", models.KindPhoto, 2)

	if _, _, err := s.MarkReceived(-1); err == nil {
		t.Error("negative index should be rejected")
	}
	if _, _, err := s.MarkReceived(2); err == nil {
		t.Error("index == TotalChunks should be rejected")
	}
	if s.ReceivedCount() != 0 {
		t.Error("rejected indices must not be recorded")
	}
}

func TestMarkReceived_CompletionFiresExactlyOnce(t *testing.T) {
	const total = 50
	r := NewRegistry(1)
	s, _, _ := r.GetOrCreate("up", "f.mp4", "", models.KindVideo, total)

	var wg sync.WaitGroup
	completions := make(chan struct{}, total)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			// Every goroutine also re-submits index 0 to stress duplicates
			s.MarkReceived(0)
			if _, final, _ := s.MarkReceived(idx); final {
				completions <- struct{}{}
			}
		}(i)
	}
	wg.Wait()
	close(completions)

	fired := 0
	for range completions {
		fired++
	}
	if fired != 1 {
		t.Errorf("completion fired %d times, want exactly once", fired)
	}
}

func TestRemove_ExactlyOnce(t *testing.T) {
	r := NewRegistry(1)
	r.GetOrCreate("up", "f.jpg", "", models.KindPhoto, 1)

	if !r.Remove("up") {
		t.Error("first Remove should report presence")
	}
	if r.Remove("up") {
		t.Error("second Remove should report absence")
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}
}

func TestExpireIdle_FreesCeilingSlots(t *testing.T) {
	r := NewRegistry(1)
	if _, _, err := r.GetOrCreate("upload_1_abandoned", "a.jpg", "", models.KindPhoto, 3); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, _, err := r.GetOrCreate("upload_2_fresh", "b.jpg", "", models.KindPhoto, 2); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("err = %v, want ErrTooManySessions", err)
	}

	expired := r.ExpireIdle(0)
	if len(expired) != 1 || expired[0] != "upload_1_abandoned" {
		t.Fatalf("ExpireIdle = %v, want the abandoned session", expired)
	}
	if r.Count() != 0 {
		t.Fatalf("Count = %d, want 0", r.Count())
	}

	// The freed slot admits a new session
	if _, _, err := r.GetOrCreate("upload_2_fresh", "b.jpg", "", models.KindPhoto, 2); err != nil {
		t.Errorf("admission after expiry failed: %v", err)
	}
}

func TestExpireIdle_KeepsActiveSessions(t *testing.T) {
	r := NewRegistry(2)
	s, _, _ := r.GetOrCreate("upload_1_active", "a.jpg", "", models.KindPhoto, 3)
	if _, _, err := s.MarkReceived(0); err != nil {
		t.Fatalf("MarkReceived: %v", err)
	}

	if expired := r.ExpireIdle(time.Minute); len(expired) != 0 {
		t.Errorf("ExpireIdle = %v, recent chunk activity must keep the session", expired)
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
}

func TestThumbnail_KeepsPayload(t *testing.T) {
	r := NewRegistry(1)
	s, _, _ := r.GetOrCreate("up", "f.mp4", "", models.KindVideo, 2)

	s.SetThumbnail("")
	if s.Thumbnail() != "" {
		t.Error("empty payload should not be stored")
	}

	s.SetThumbnail("data:image/jpeg;base64,abcd")
	if got := s.Thumbnail(); got != "data:image/jpeg;base64,abcd" {
		t.Errorf("Thumbnail = %q", got)
	}
}

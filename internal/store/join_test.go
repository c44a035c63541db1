package store

import (
	"testing"

	"github.com/Simonbn1/eksamen/internal/models"
)

func mustCreateUser(t *testing.T, users *UserStore, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "x"}

	if err := users.Create(&user); err != nil {
		t.Fatalf("failed to create fixture user %q: %v", name, err)
	}

	return user
}

func TestJoin_FirstJoinSucceedsSecondConflicts(t *testing.T) {
	events, users, attendances, joins := newTestStores(t)
	event := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")
	user := mustCreateUser(t, users, "Alice", "alice@example.com")

	result, err := joins.Join("1", event.Title)

	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}

	if result.User.ID != user.ID || result.Event.ID != event.ID {
		t.Fatalf("join resolved wrong pair: %+v", result)
	}

	if _, err := joins.Join("1", event.Title); err != ErrAlreadyJoined {
		t.Fatalf("got %v, want ErrAlreadyJoined", err)
	}

	count, err := attendances.Count(event.ID)

	if err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if count != 1 {
		t.Fatalf("got count %d after repeat join, want 1", count)
	}
}

func TestJoin_ByEventID(t *testing.T) {
	events, users, _, joins := newTestStores(t)
	mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")
	mustCreateUser(t, users, "Alice", "alice@example.com")

	if _, err := joins.Join("1", "1"); err != nil {
		t.Fatalf("join by event id failed: %v", err)
	}
}

func TestJoin_MissingEventMutatesNothing(t *testing.T) {
	events, users, _, joins := newTestStores(t)
	mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")

	if _, err := joins.Join("stranger-subject", "No Such Event"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// The failed join must not have minted a user record.
	if _, err := users.Lookup("stranger-subject"); err != ErrNotFound {
		t.Fatalf("user was created by a failed join: %v", err)
	}
}

func TestJoin_UnknownNumericUserReportsNotFound(t *testing.T) {
	events, _, _, joins := newTestStores(t)
	event := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")

	if _, err := joins.Join("37", event.Title); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestJoin_SubjectReferenceCreatesUserOnFirstJoin(t *testing.T) {
	events, users, _, joins := newTestStores(t)
	event := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")

	result, err := joins.Join("google-sub-123", event.Title)

	if err != nil {
		t.Fatalf("subject join failed: %v", err)
	}

	found, err := users.Lookup("google-sub-123")

	if err != nil {
		t.Fatalf("joined user not found: %v", err)
	}

	if found.ID != result.User.ID {
		t.Fatalf("lookup returned user %d, join returned %d", found.ID, result.User.ID)
	}

	// The same subject joins idempotently, not as a fresh user.
	if _, err := joins.Join("google-sub-123", event.Title); err != ErrAlreadyJoined {
		t.Fatalf("got %v, want ErrAlreadyJoined", err)
	}
}

func TestAttendanceCount_ZeroThenN(t *testing.T) {
	events, users, attendances, joins := newTestStores(t)
	event := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")

	count, err := attendances.Count(event.ID)

	if err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if count != 0 {
		t.Fatalf("got %d for event with no joiners, want 0", count)
	}

	mustCreateUser(t, users, "Alice", "alice@example.com")
	mustCreateUser(t, users, "Bob", "bob@example.com")
	mustCreateUser(t, users, "Carol", "carol@example.com")

	for _, ref := range []string{"1", "2", "3"} {
		if _, err := joins.Join(ref, event.Title); err != nil {
			t.Fatalf("join by %s failed: %v", ref, err)
		}
	}

	count, err = attendances.Count(event.ID)

	if err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if count != 3 {
		t.Fatalf("got %d after three distinct joins, want 3", count)
	}
}

func TestAttendanceCounts_BatchWithZeroEntries(t *testing.T) {
	events, users, attendances, joins := newTestStores(t)
	yoga := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")
	jazz := mustCreateEvent(t, events, "Jazz Night", "Music", "Concert Hall", "2024-07-10")
	mustCreateUser(t, users, "Alice", "alice@example.com")

	if _, err := joins.Join("1", yoga.Title); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	counts, err := attendances.Counts([]uint{yoga.ID, jazz.ID})

	if err != nil {
		t.Fatalf("batch counts failed: %v", err)
	}

	if counts[yoga.ID] != 1 {
		t.Fatalf("got %d for joined event, want 1", counts[yoga.ID])
	}

	// Missing keys read as zero; an event nobody joined reports 0.
	if counts[jazz.ID] != 0 {
		t.Fatalf("got %d for event with no joiners, want 0", counts[jazz.ID])
	}
}

func TestAttendees_ListsContactFields(t *testing.T) {
	events, users, attendances, joins := newTestStores(t)
	event := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")
	alice := mustCreateUser(t, users, "Alice", "alice@example.com")

	if _, err := joins.Join("1", event.Title); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	attendees, err := attendances.Attendees(event.ID)

	if err != nil {
		t.Fatalf("attendees failed: %v", err)
	}

	if len(attendees) != 1 || attendees[0].ID != alice.ID || attendees[0].Email != "alice@example.com" {
		t.Fatalf("unexpected attendee list: %+v", attendees)
	}
}

func TestJoinedEvents_EmptyAndOrdered(t *testing.T) {
	events, users, attendances, joins := newTestStores(t)
	user := mustCreateUser(t, users, "Alice", "alice@example.com")

	got, err := attendances.JoinedEvents(user.ID)

	if err != nil {
		t.Fatalf("joined events failed: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected no joined events, got %v", titles(got))
	}

	jazz := mustCreateEvent(t, events, "Jazz Night", "Music", "Concert Hall", "2024-07-10")
	yoga := mustCreateEvent(t, events, "Yoga", "Health", "Studio A", "2024-06-01")

	for _, title := range []string{jazz.Title, yoga.Title} {
		if _, err := joins.Join("1", title); err != nil {
			t.Fatalf("join %s failed: %v", title, err)
		}
	}

	got, err = attendances.JoinedEvents(user.ID)

	if err != nil {
		t.Fatalf("joined events failed: %v", err)
	}

	assertTitles(t, got, "Yoga", "Jazz Night")
}

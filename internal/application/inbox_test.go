package application

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var inboxBase = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

func seedConversations() []domain.Conversation {
	return []domain.Conversation{
		{
			ID:           "3",
			Sender:       domain.Sender{ID: "t2", Name: "Mr. Williams", Role: domain.SenderRoleTeacher},
			Subject:      "Science Fair Project",
			LastActivity: inboxBase.Add(-5 * 24 * time.Hour),
			Utterances:   []domain.Utterance{{ID: "m1", Content: "Exceptional project", FromSender: true}},
		},
		{
			ID:           "1",
			Sender:       domain.Sender{ID: "t1", Name: "Ms. Johnson", Role: domain.SenderRoleTeacher},
			Subject:      "Math Homework Update",
			LastActivity: inboxBase,
			Unread:       true,
			Utterances:   []domain.Utterance{{ID: "m1", Content: "Geometry project", FromSender: true}},
		},
		{
			ID:           "2",
			Sender:       domain.Sender{ID: "a1", Name: "Principal Wilson", Role: domain.SenderRoleAdmin},
			Subject:      "School Event Reminder",
			LastActivity: inboxBase.Add(-2 * 24 * time.Hour),
			Unread:       true,
		},
	}
}

func newTestInbox(t *testing.T, now time.Time, opts ...InboxOption) *Inbox {
	t.Helper()

	inbox, err := NewInbox(seedConversations(), fixedClock{now: now}, opts...)
	require.NoError(t, err)
	return inbox
}

func listIDs(conversations []domain.Conversation) []domain.ConversationID {
	ids := make([]domain.ConversationID, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestInboxListSortsUnsortedSeedNewestFirst(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	assert.Equal(t, []domain.ConversationID{"1", "2", "3"}, listIDs(inbox.List()))
}

func TestInboxSelectMarksReadOnce(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	changes := 0
	inbox.Subscribe(func() { changes++ })

	require.Equal(t, 2, inbox.UnreadCount())
	require.NoError(t, inbox.Select("1"))
	assert.Equal(t, 1, inbox.UnreadCount())

	selected, ok := inbox.Selected()
	require.True(t, ok)
	assert.False(t, selected.Unread)

	require.NoError(t, inbox.Select("1"))
	assert.Equal(t, 1, inbox.UnreadCount())
	assert.Equal(t, 2, changes)
}

func TestInboxSelectUnknownReportsNotFound(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	err := inbox.Select("missing")
	require.ErrorIs(t, err, domain.ErrConversationNotFound)

	_, ok := inbox.Selected()
	assert.False(t, ok)
}

func TestInboxSendReplyRequiresSelection(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	inbox.UpdateDraft("hello")

	_, err := inbox.SendReply()
	require.ErrorIs(t, err, domain.ErrNoSelection)
}

func TestInboxSendReplyRejectsBlankDraftWithoutMutation(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	require.NoError(t, inbox.Select("3"))
	before, _ := inbox.Selected()

	for _, draft := range []string{"", "   ", "\n\t"} {
		inbox.UpdateDraft(draft)
		_, err := inbox.SendReply()
		require.ErrorIs(t, err, domain.ErrEmptyDraft)
	}

	after, _ := inbox.Selected()
	assert.Equal(t, before.Utterances, after.Utterances)
	assert.Equal(t, before.LastActivity, after.LastActivity)
}

func TestInboxSendReplyAppendsAndMovesThreadToTop(t *testing.T) {
	t.Parallel()

	now := inboxBase.Add(24 * time.Hour)
	inbox := newTestInbox(t, now, WithLocalParticipant(func() domain.UserID { return "u-1" }))
	require.NoError(t, inbox.Select("3"))
	inbox.UpdateDraft("  Thanks for the update!  ")

	utterance, err := inbox.SendReply()
	require.NoError(t, err)
	assert.Equal(t, "  Thanks for the update!  ", utterance.Content)
	assert.False(t, utterance.FromSender)
	assert.Equal(t, now, utterance.Timestamp)
	assert.Equal(t, domain.UserID("u-1"), utterance.AuthorID)
	assert.NotEmpty(t, utterance.ID)
	assert.Empty(t, inbox.Draft())

	list := inbox.List()
	assert.Equal(t, []domain.ConversationID{"3", "1", "2"}, listIDs(list))
	require.Len(t, list[0].Utterances, 2)
	assert.Equal(t, utterance, list[0].Utterances[1])
	assert.Equal(t, now, list[0].LastActivity)
	assert.Equal(t, "Thanks for the update!", list[0].Preview)
}

func TestInboxDeleteSelectedDeselects(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	require.NoError(t, inbox.Select("2"))
	inbox.UpdateDraft("draft")

	require.NoError(t, inbox.DeleteConversation("2"))
	_, ok := inbox.Selected()
	assert.False(t, ok)
	assert.Empty(t, inbox.Draft())
	assert.Equal(t, []domain.ConversationID{"1", "3"}, listIDs(inbox.List()))

	require.ErrorIs(t, inbox.Select("2"), domain.ErrConversationNotFound)
	require.ErrorIs(t, inbox.DeleteConversation("2"), domain.ErrConversationNotFound)
}

func TestInboxDeleteOtherKeepsSelection(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	require.NoError(t, inbox.Select("1"))
	inbox.UpdateDraft("keep me")

	require.NoError(t, inbox.DeleteConversation("3"))
	selected, ok := inbox.Selected()
	require.True(t, ok)
	assert.Equal(t, domain.ConversationID("1"), selected.ID)
	assert.Equal(t, "keep me", inbox.Draft())
}

func TestInboxDeselectClearsDraft(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	require.NoError(t, inbox.Select("1"))
	inbox.UpdateDraft("half written")

	inbox.Deselect()
	_, ok := inbox.Selected()
	assert.False(t, ok)
	assert.Empty(t, inbox.Draft())
}

func TestInboxSwitchingThreadsDropsDraft(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	require.NoError(t, inbox.Select("1"))
	inbox.UpdateDraft("for thread one")
	require.NoError(t, inbox.Select("1"))
	assert.Equal(t, "for thread one", inbox.Draft())

	require.NoError(t, inbox.Select("2"))
	assert.Empty(t, inbox.Draft())
}

func TestInboxSearch(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	assert.Equal(t, []domain.ConversationID{"1"}, listIDs(inbox.Search("geometry")))
	assert.Equal(t, []domain.ConversationID{"2"}, listIDs(inbox.Search("wilson")))
	assert.Len(t, inbox.Search(""), 3)
	assert.Empty(t, inbox.Search("basketball"))
}

func TestInboxListReturnsCopies(t *testing.T) {
	t.Parallel()

	inbox := newTestInbox(t, inboxBase)
	list := inbox.List()
	list[0].Subject = "tampered"
	list[0].Utterances[0].Content = "tampered"

	fresh := inbox.List()
	assert.Equal(t, "Math Homework Update", fresh[0].Subject)
	assert.Equal(t, "Geometry project", fresh[0].Utterances[0].Content)
}

func TestNewInboxRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	_, err := NewInbox([]domain.Conversation{{ID: "1", Sender: domain.Sender{Role: "parent"}}}, nil)
	require.Error(t, err)

	dup := seedConversations()
	dup = append(dup, dup[0])
	_, err = NewInbox(dup, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestPreviewOfTruncatesLongReplies(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 30)
	preview := previewOf(long)
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Equal(t, previewLength+3, len([]rune(preview)))
	assert.Equal(t, "a b", previewOf(" a\n b "))
}

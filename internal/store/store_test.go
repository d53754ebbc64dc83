package store

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefly/briefly-backend/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testDocument(pages int) *models.Document {
	doc := &models.Document{
		Name:       "report.pdf",
		TotalPages: pages,
	}
	for i := 1; i <= pages; i++ {
		doc.Pages = append(doc.Pages, models.Page{PageNumber: i, Text: "text"})
	}
	return doc
}

func TestCreateGetDelete(t *testing.T) {
	s := New(testLogger())

	sess := s.Create(testDocument(7))
	id := sess.Document.SessionID
	require.NotEmpty(t, id)
	assert.False(t, sess.Document.CreatedAt.IsZero())
	assert.Equal(t, 1, s.Count())

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, sess, got)

	assert.True(t, s.Delete(id))
	assert.False(t, s.Delete(id))
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Count())
}

func TestStoreSummaryIsWriteOnce(t *testing.T) {
	s := New(testLogger())
	sess := s.Create(testDocument(7))

	assert.False(t, sess.HasProgress())

	require.True(t, sess.StoreSummary(0, "first"))
	assert.True(t, sess.HasProgress())
	assert.Equal(t, 0, sess.CurrentBlock())

	assert.False(t, sess.StoreSummary(0, "second"), "second write must be rejected")

	text, ok := sess.CachedSummary(0)
	require.True(t, ok)
	assert.Equal(t, "first", text)

	_, ok = sess.CachedSummary(1)
	assert.False(t, ok)
}

func TestStoreSummaryDiscardsLateWriteToDeletedSession(t *testing.T) {
	s := New(testLogger())
	sess := s.Create(testDocument(3))
	id := sess.Document.SessionID

	require.True(t, s.Delete(id))
	assert.False(t, s.StoreSummary(id, 0, "late result"))
	assert.Equal(t, 0, s.Count(), "a late write must not resurrect the session")
}

func TestAdvanceRateLimit(t *testing.T) {
	s := New(testLogger())
	sess := s.Create(testDocument(9))
	require.True(t, sess.StoreSummary(0, "block 0"))

	base := time.Now()

	// Too soon after the implicit first advance.
	remaining, ok := sess.Advance(1, 15*time.Second, base.Add(5*time.Second))
	assert.False(t, ok)
	assert.InDelta(t, 10, remaining, 1)
	assert.Equal(t, 0, sess.CurrentBlock(), "refused advance must not move the cursor")

	// Past the interval.
	_, ok = sess.Advance(1, 15*time.Second, base.Add(16*time.Second))
	require.True(t, ok)
	assert.Equal(t, 1, sess.CurrentBlock())

	// Immediately again: limited, relative to the new advance time.
	remaining, ok = sess.Advance(2, 15*time.Second, base.Add(17*time.Second))
	assert.False(t, ok)
	assert.InDelta(t, 14, remaining, 1)
	assert.Equal(t, 1, sess.CurrentBlock())
}

func TestAdvanceWithoutProgress(t *testing.T) {
	s := New(testLogger())
	sess := s.Create(testDocument(9))

	_, ok := sess.Advance(1, 0, time.Now())
	assert.False(t, ok)
}

func TestSweep(t *testing.T) {
	s := New(testLogger())

	old := s.Create(testDocument(3))
	old.Document.CreatedAt = time.Now().Add(-2 * time.Hour)
	fresh := s.Create(testDocument(3))

	assert.Equal(t, 1, s.Sweep(time.Hour))

	_, ok := s.Get(old.Document.SessionID)
	assert.False(t, ok, "expired session must be reclaimed")
	_, ok = s.Get(fresh.Document.SessionID)
	assert.True(t, ok, "fresh session must survive")
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/connectplus/connectplus/internal/clock"
	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
	"github.com/connectplus/connectplus/internal/session/domain"
	"github.com/connectplus/connectplus/internal/session/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&domain.ChatSession{},
		&domain.Message{},
	))
	return gdb
}

func newTestService(t *testing.T, gdb *gorm.DB, clk clock.Clock) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
}

func TestGetOrCreateReturnsUnsavedEmptySession(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	customerID := snowflake.ID(42)
	session, err := svc.GetOrCreate(ctx, customerID, "Taro")
	require.NoError(t, err)
	assert.Equal(t, customerID, session.CustomerID)
	assert.Equal(t, "Taro", session.CustomerName)
	assert.Empty(t, session.Messages)

	// Nothing persisted before the first message.
	var count int64
	require.NoError(t, gdb.Model(&domain.ChatSession{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Get(ctx, customerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendPersistsOrderedTranscript(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	customerID := snowflake.ID(42)
	const n = 4
	var last time.Time
	for i := 0; i < n; i++ {
		clk.Advance(time.Minute)
		last = clk.Now()
		_, err := svc.Append(ctx, domain.AppendRequest{
			CustomerID:   customerID,
			CustomerName: "Taro",
			SenderID:     customerID,
			SenderName:   "Taro",
			Text:         fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	session, err := svc.Get(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, session.Messages, n)
	assert.True(t, session.LastUpdated.Equal(last))

	for i, msg := range session.Messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Text)
		assert.Equal(t, customerID, msg.SenderID)
		assert.Equal(t, "Taro", msg.SenderName)
		if i > 0 {
			assert.False(t, msg.Timestamp.Before(session.Messages[i-1].Timestamp))
		}
	}
}

func TestAppendFromAdminBumpsSession(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	customerID := snowflake.ID(42)
	_, err := svc.Append(ctx, domain.AppendRequest{
		CustomerID:   customerID,
		CustomerName: "Taro",
		SenderID:     customerID,
		SenderName:   "Taro",
		Text:         "Hello",
	})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	session, err := svc.Append(ctx, domain.AppendRequest{
		CustomerID: customerID,
		SenderID:   identitydomain.AdminID,
		SenderName: "Administrator",
		Text:       "Hi there",
	})
	require.NoError(t, err)

	require.Len(t, session.Messages, 2)
	assert.Equal(t, "Hi there", session.Messages[1].Text)
	assert.Equal(t, "Administrator", session.Messages[1].SenderName)
	// Admin appends never rename the session owner.
	assert.Equal(t, "Taro", session.CustomerName)
	assert.True(t, session.LastUpdated.Equal(clk.Now()))
}

func TestAppendRejectsEmptyMessage(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	customerID := snowflake.ID(42)
	_, err := svc.Append(ctx, domain.AppendRequest{
		CustomerID:   customerID,
		CustomerName: "Taro",
		SenderID:     customerID,
		SenderName:   "Taro",
		Text:         "Hello",
	})
	require.NoError(t, err)
	before, err := svc.Get(ctx, customerID)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Append(ctx, domain.AppendRequest{
			CustomerID: customerID,
			SenderID:   customerID,
			SenderName: "Taro",
			Text:       text,
		})
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	}

	after, err := svc.Get(ctx, customerID)
	require.NoError(t, err)
	assert.Len(t, after.Messages, len(before.Messages))
	assert.True(t, after.LastUpdated.Equal(before.LastUpdated))
}

func TestAppendAcceptsImageOnlyMessage(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)

	session, err := svc.Append(context.Background(), domain.AppendRequest{
		CustomerID:   snowflake.ID(42),
		CustomerName: "Taro",
		SenderID:     snowflake.ID(42),
		SenderName:   "Taro",
		ImageURL:     "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, err)
	require.Len(t, session.Messages, 1)
	assert.Empty(t, session.Messages[0].Text)
	assert.NotEmpty(t, session.Messages[0].ImageURL)
}

func TestListByRecencyOrdersNewestFirst(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	// Appends at t+100s, t+300s, t+200s; recency order is b, c, a.
	appendAt := func(offset time.Duration, id snowflake.ID, name string) {
		clk.Set(time.Unix(1000, 0).Add(offset))
		_, err := svc.Append(ctx, domain.AppendRequest{
			CustomerID:   id,
			CustomerName: name,
			SenderID:     id,
			SenderName:   name,
			Text:         "hi",
		})
		require.NoError(t, err)
	}
	appendAt(100*time.Second, snowflake.ID(1001), "A")
	appendAt(300*time.Second, snowflake.ID(1002), "B")
	appendAt(200*time.Second, snowflake.ID(1003), "C")

	sessions, err := svc.ListByRecency(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "B", sessions[0].CustomerName)
	assert.Equal(t, "C", sessions[1].CustomerName)
	assert.Equal(t, "A", sessions[2].CustomerName)
}

func TestUpsertReplacesTranscript(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	customerID := snowflake.ID(42)
	_, err := svc.Append(ctx, domain.AppendRequest{
		CustomerID:   customerID,
		CustomerName: "Taro",
		SenderID:     customerID,
		SenderName:   "Taro",
		Text:         "old",
	})
	require.NoError(t, err)

	replacement := domain.ChatSession{
		CustomerID:   customerID,
		CustomerName: "Taro",
		LastUpdated:  clk.Now().Add(time.Hour),
		Messages: []domain.Message{
			{
				ID:         snowflake.ID(9001),
				SessionID:  customerID,
				SenderID:   customerID,
				SenderName: "Taro",
				Text:       "new one",
				Timestamp:  clk.Now().Add(time.Hour),
			},
			{
				ID:         snowflake.ID(9002),
				SessionID:  customerID,
				SenderID:   identitydomain.AdminID,
				SenderName: "Administrator",
				Text:       "new two",
				Timestamp:  clk.Now().Add(2 * time.Hour),
			},
		},
	}
	require.NoError(t, svc.Upsert(ctx, replacement))

	got, err := svc.Get(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "new one", got.Messages[0].Text)
	assert.Equal(t, "new two", got.Messages[1].Text)
	assert.True(t, got.LastUpdated.Equal(replacement.LastUpdated))
}

func TestSessionRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	clk := clock.NewFakeClock(time.Unix(1000, 0))
	svc := newTestService(t, gdb, clk)
	ctx := context.Background()

	customerID := snowflake.ID(42)
	first, err := svc.Append(ctx, domain.AppendRequest{
		CustomerID:   customerID,
		CustomerName: "Taro",
		SenderID:     customerID,
		SenderName:   "Taro",
		Text:         "Hello",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, got.CustomerID)
	assert.Equal(t, first.CustomerName, got.CustomerName)
	require.Len(t, got.Messages, len(first.Messages))
	for i := range got.Messages {
		assert.Equal(t, first.Messages[i].ID, got.Messages[i].ID)
		assert.Equal(t, first.Messages[i].Text, got.Messages[i].Text)
		assert.True(t, first.Messages[i].Timestamp.Equal(got.Messages[i].Timestamp))
	}
}

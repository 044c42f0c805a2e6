package out_test

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conversationout "davomat/internal/modules/conversation/adapter/out"
	"davomat/internal/modules/conversation/domain"
)

type captureClient struct{ sent []tgbotapi.Chattable }

func (c *captureClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.sent = append(c.sent, msg)
	return tgbotapi.Message{}, nil
}

func TestTelegramReplierAttachesKeyboards(t *testing.T) {
	t.Parallel()
	client := &captureClient{}
	replier := conversationout.NewTelegramReplier(client)
	ctx := context.Background()

	require.NoError(t, replier.Reply(ctx, 42, "Asosiy menyu:", domain.WorkerMenu()))
	require.NoError(t, replier.Reply(ctx, 42, "Telefon", domain.ContactKeyboard()))
	require.NoError(t, replier.Reply(ctx, 42, "plain", nil))
	require.NoError(t, replier.ReplyDocument(ctx, 42, "/tmp/r.xlsx", "hisobot"))
	require.Len(t, client.sent, 4)

	menu := client.sent[0].(tgbotapi.MessageConfig)
	markup, ok := menu.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.Keyboard, 3)
	assert.Equal(t, domain.ButtonEndWork, markup.Keyboard[2][1].Text)
	assert.True(t, markup.ResizeKeyboard)
	assert.False(t, markup.OneTimeKeyboard)

	contact := client.sent[1].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	assert.True(t, contact.Keyboard[0][0].RequestContact)
	assert.True(t, contact.OneTimeKeyboard)

	assert.Nil(t, client.sent[2].(tgbotapi.MessageConfig).ReplyMarkup)

	doc := client.sent[3].(tgbotapi.DocumentConfig)
	assert.Equal(t, "hisobot", doc.Caption)
	assert.Equal(t, tgbotapi.FilePath("/tmp/r.xlsx"), doc.File)
}

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()
	store := conversationout.NewMemoryStateStore()
	ctx := context.Background()

	_, known, err := store.Get(ctx, "42")
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, store.Put(ctx, " 42 ", domain.StateAwaitingComment))
	state, known, err := store.Get(ctx, "42")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, domain.StateAwaitingComment, state)

	all, err := store.List(ctx)
	require.NoError(t, err)
	all["42"] = domain.StateMainMenu
	state, _, _ = store.Get(ctx, "42")
	assert.Equal(t, domain.StateAwaitingComment, state)
}

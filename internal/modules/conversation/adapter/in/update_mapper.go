package in

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"davomat/internal/modules/conversation/dto"
)

// ToUpdate reduces a Bot API update to the fields the conversation uses.
// Updates without a message or sender, and message kinds the flow does not
// know, report false.
func ToUpdate(u tgbotapi.Update) (dto.UpdateInput, bool) {
	msg := u.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return dto.UpdateInput{}, false
	}
	in := dto.UpdateInput{
		ChatID:   msg.Chat.ID,
		UserID:   strconv.FormatInt(msg.From.ID, 10),
		Username: msg.From.UserName,
		Private:  msg.Chat.IsPrivate(),
	}
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		in.Kind = "start"
	case msg.Contact != nil:
		in.Kind = "contact"
		in.Phone = msg.Contact.PhoneNumber
	case len(msg.Photo) > 0:
		in.Kind = "photo"
		in.FileID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.VideoNote != nil:
		in.Kind = "video_note"
		in.FileID = msg.VideoNote.FileID
		in.Length = msg.VideoNote.Length
	case msg.Video != nil:
		in.Kind = "video"
		in.FileID = msg.Video.FileID
	case msg.Location != nil:
		in.Kind = "location"
		in.Latitude = msg.Location.Latitude
		in.Longitude = msg.Location.Longitude
	case msg.Text != "":
		in.Kind = "text"
		in.Text = msg.Text
	default:
		return dto.UpdateInput{}, false
	}
	return in, true
}

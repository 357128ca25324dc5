package discord

import (
	"fmt"
	"unicode/utf8"

	dgo "github.com/bwmarrin/discordgo"
)

const (
	RelayTitle = "Message Translation"
	HelpTitle  = "Bot Commands"

	embedColor       = 0x00ff00
	fieldValueLimit  = 1024
	footerFormat     = "Message by %s"
	originalFieldKey = "Message :"
)

type HelpEntry struct {
	Usage       string
	Description string
}

func RelayEmbed(original, translated, language string, author *dgo.User) *dgo.MessageEmbed {
	e := &dgo.MessageEmbed{
		Color: embedColor,
		Title: RelayTitle,
		Fields: []*dgo.MessageEmbedField{
			{Name: originalFieldKey, Value: truncate(original)},
			{Name: fmt.Sprintf("Translated (%s) :", language), Value: truncate(translated)},
		},
	}
	if author != nil {
		e.Footer = Footer(author.Username, author.AvatarURL(""))
	}
	return e
}

func HelpEmbed(entries []HelpEntry) *dgo.MessageEmbed {
	e := &dgo.MessageEmbed{
		Color:  embedColor,
		Title:  HelpTitle,
		Fields: make([]*dgo.MessageEmbedField, 0, len(entries)),
	}
	for _, c := range entries {
		e.Fields = append(e.Fields, &dgo.MessageEmbedField{Name: c.Usage, Value: c.Description})
	}
	return e
}

func Footer(username, iconURL string) *dgo.MessageEmbedFooter {
	return &dgo.MessageEmbedFooter{
		Text:    fmt.Sprintf(footerFormat, username),
		IconURL: iconURL,
	}
}

func IsRelayEmbed(e *dgo.MessageEmbed) bool {
	return e != nil && e.Title == RelayTitle
}

// Discord rejects empty field values and values over 1024 characters.
func truncate(s string) string {
	if s == "" {
		return "\u200b"
	}
	if utf8.RuneCountInString(s) <= fieldValueLimit {
		return s
	}
	r := []rune(s)
	return string(r[:fieldValueLimit-1]) + "…"
}

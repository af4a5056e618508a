package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	appchat "arcade-bot/internal/app/chat"
	appgames "arcade-bot/internal/app/games"
	"arcade-bot/internal/game"
	"arcade-bot/internal/identity"
	"arcade-bot/internal/pet"
	"arcade-bot/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const helpText = `Commands:
/quiz <topic> - start a trivia quiz
/picture <topic> - start a picture guessing race
/battle - open a battle arena
/join - enter an open battle
/attack <what you do> - act on your battle turn
/cancel <quiz|picture|battle> - cancel a game you started
/hatch - open a pet egg (3 per day)
/pets - list your pets
/nick <name> - set your nickname
/sign <text> - set your signature
Anything else is a chat message.`

type configReader interface {
	GetCommunityConfig(ctx context.Context, communityID string) (*store.CommunityConfig, error)
}

type bot struct {
	api        *tgbotapi.BotAPI
	games      *appgames.Service
	chat       *appchat.Service
	identities *identity.Service
	pets       *pet.Service
	configs    configReader
}

func (b *bot) run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case update.CallbackQuery != nil:
				b.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil && update.Message.Text != "":
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	communityID := strconv.FormatInt(msg.Chat.ID, 10)
	userID := strconv.FormatInt(msg.From.ID, 10)
	name := displayName(msg.From)

	cmd, args := splitCommand(msg.Text)
	if cmd == "" {
		reply, err := b.chat.Respond(ctx, communityID, userID, name, msg.Text)
		if err != nil {
			log.Error().Err(err).Str("community_id", communityID).Msg("chat respond failed")
			return
		}
		if reply != "" {
			b.send(msg.Chat.ID, reply)
		}
		return
	}

	if isGameCommand(cmd) && !b.gamesEnabled(ctx, communityID) {
		b.send(msg.Chat.ID, "Games are switched off in this chat.")
		return
	}

	switch cmd {
	case "help", "start":
		b.send(msg.Chat.ID, helpText)
	case "quiz":
		res := b.games.StartQuiz(ctx, communityID, communityID, userID, game.BroadcastParams{Topic: args})
		b.send(msg.Chat.ID, res.Message)
	case "picture":
		res := b.games.StartPicture(ctx, communityID, communityID, userID, game.BroadcastParams{Topic: args})
		b.send(msg.Chat.ID, res.Message)
	case "battle":
		res := b.games.StartBattle(communityID, communityID, userID)
		b.send(msg.Chat.ID, res.Message)
	case "join":
		res := b.games.JoinBattle(communityID, userID, name)
		b.send(msg.Chat.ID, res.Message)
	case "attack":
		if args == "" {
			b.send(msg.Chat.ID, "Describe your move: /attack <what you do>")
			return
		}
		res := b.games.BattleAction(ctx, communityID, userID, args)
		b.send(msg.Chat.ID, res.Message)
	case "cancel":
		gameType, ok := parseGameType(args)
		if !ok {
			b.send(msg.Chat.ID, "Cancel what? /cancel quiz, /cancel picture or /cancel battle")
			return
		}
		res := b.games.CancelSession(communityID, gameType, userID)
		b.send(msg.Chat.ID, res.Message)
	case "hatch":
		b.send(msg.Chat.ID, "Incubating an egg, give me a moment...")
		res, err := b.pets.Hatch(ctx, userID)
		switch {
		case errors.Is(err, pet.ErrDailyLimit):
			b.send(msg.Chat.ID, "You are out of eggs for today (3 per day). Come back tomorrow.")
		case err != nil:
			log.Error().Err(err).Str("user_id", userID).Msg("hatch failed")
			b.send(msg.Chat.ID, "The egg refused to hatch. Try again in a moment.")
		case res.Image != nil:
			b.sendPhoto(msg.Chat.ID, res.Image, pet.FormatHatch(res))
		default:
			b.send(msg.Chat.ID, pet.FormatHatch(res))
		}
	case "pets":
		list, err := b.pets.List(ctx, userID)
		if err != nil {
			b.send(msg.Chat.ID, "Could not fetch your pets.")
			return
		}
		b.send(msg.Chat.ID, pet.FormatCollection(name, list))
	case "nick":
		if args == "" {
			b.send(msg.Chat.ID, "Usage: /nick <name>")
			return
		}
		if err := b.identities.SetNickname(ctx, userID, args); err != nil {
			b.send(msg.Chat.ID, "Could not save your nickname.")
			return
		}
		b.send(msg.Chat.ID, fmt.Sprintf("Got it, I'll call you %s.", strings.TrimSpace(args)))
	case "sign":
		if args == "" {
			b.send(msg.Chat.ID, "Usage: /sign <text>")
			return
		}
		if err := b.identities.SetSignature(ctx, userID, args); err != nil {
			b.send(msg.Chat.ID, "Could not save your signature.")
			return
		}
		b.send(msg.Chat.ID, "Signature saved.")
	default:
		b.send(msg.Chat.ID, "I don't know that command. Try /help.")
	}
}

func (b *bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	communityID := strconv.FormatInt(cb.Message.Chat.ID, 10)
	userID := strconv.FormatInt(cb.From.ID, 10)
	name := displayName(cb.From)

	gameType, choice, err := parseCallback(cb.Data)
	if err != nil {
		_, _ = b.api.Request(tgbotapi.NewCallback(cb.ID, ""))
		return
	}

	res := b.games.SubmitAnswer(communityID, gameType, userID, name, choice)
	_, _ = b.api.Request(tgbotapi.NewCallback(cb.ID, res.Message))
	if res.RoundWon {
		b.send(cb.Message.Chat.ID, res.Message)
	}
}

func (b *bot) gamesEnabled(ctx context.Context, communityID string) bool {
	cfg, err := b.configs.GetCommunityConfig(ctx, communityID)
	if err != nil {
		return true
	}
	return cfg.GamesEnabled
}

func (b *bot) send(chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}

func (b *bot) sendPhoto(chatID int64, image []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "pet.png", Bytes: image})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send photo failed")
	}
}

// splitCommand returns ("", "") for plain text, otherwise the lowercased
// command without its slash or @botname suffix, plus the argument string.
func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, args, _ := strings.Cut(text[1:], " ")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func isGameCommand(cmd string) bool {
	switch cmd {
	case "quiz", "picture", "battle", "join", "attack", "cancel":
		return true
	}
	return false
}

func parseGameType(s string) (game.Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiz":
		return game.TypeQuiz, true
	case "picture":
		return game.TypePicture, true
	case "battle":
		return game.TypeBattle, true
	}
	return "", false
}

// parseCallback decodes inline-button data of the form "<game>:<index>".
func parseCallback(data string) (game.Type, int, error) {
	prefix, raw, ok := strings.Cut(data, ":")
	if !ok {
		return "", 0, errors.New("malformed callback data")
	}
	gameType, ok := parseGameType(prefix)
	if !ok || gameType == game.TypeBattle {
		return "", 0, errors.New("unknown callback game")
	}
	choice, err := strconv.Atoi(raw)
	if err != nil || choice < 0 {
		return "", 0, errors.New("bad callback index")
	}
	return gameType, choice, nil
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return "someone"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	if name == "" {
		name = strconv.FormatInt(u.ID, 10)
	}
	return name
}

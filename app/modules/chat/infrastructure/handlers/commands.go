package chathandlers

import (
	"context"
	"fmt"
	"strings"

	chatdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/domain"
	"github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/render"
	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *ChatHandlers) handleStart(_ context.Context, msg *tgbotapi.Message) error {
	return h.reply(msg.Chat.ID, render.StartText, nil)
}

func (h *ChatHandlers) handleHelp(_ context.Context, msg *tgbotapi.Message) error {
	return h.reply(msg.Chat.ID, render.HelpText, nil)
}

func (h *ChatHandlers) handleMenu(_ context.Context, msg *tgbotapi.Message) error {
	menu := render.MainMenu()
	return h.reply(msg.Chat.ID, render.MenuText, &menu)
}

func (h *ChatHandlers) handleAddMe(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	result, err := h.register(ctx, msg.Chat.ID, msg.From)
	if err != nil {
		return err
	}
	text := render.PlayerUpdatedText
	if result.Created {
		text = render.PlayerAddedText
	}
	return h.reply(msg.Chat.ID, text, nil)
}

func (h *ChatHandlers) register(ctx context.Context, chatID int64, user *tgbotapi.User) (*playerservice.RegisterResult, error) {
	return h.players.Register(ctx, chatID, playerservice.Identity{
		ExternalID: user.ID,
		FirstName:  user.FirstName,
		Username:   user.UserName,
	})
}

// handlePlayed records "/played @w @l [@w @l ...] [date=YYYY-MM-DD]".
func (h *ChatHandlers) handlePlayed(ctx context.Context, msg *tgbotapi.Message) error {
	refs := chatdomain.ExtractMentions(msg.Text, entities(msg.Entities))
	pairs, err := chatdomain.PairMentions(refs)
	if err != nil {
		return err
	}
	date, err := chatdomain.ParsePlayedDate(strings.Fields(msg.CommandArguments()))
	if err != nil {
		return err
	}
	if date == nil {
		today := h.today(msg)
		date = &today
	}

	mentions := make([]playerservice.Mention, len(refs))
	for i, r := range refs {
		mentions[i] = playerservice.Mention{ExternalID: r.ExternalID, Username: r.Username, Display: r.Display}
	}
	players, err := h.players.Resolve(ctx, msg.Chat.ID, mentions)
	if err != nil {
		return err
	}

	batch := make([]gameservice.Pair, len(pairs))
	for i := range pairs {
		batch[i] = gameservice.Pair{
			Winner: participant(players[2*i]),
			Loser:  participant(players[2*i+1]),
		}
	}
	games, err := h.games.RecordGames(ctx, msg.Chat.ID, batch, date)
	if err != nil {
		return err
	}
	return h.sendGames(msg.Chat.ID, calendar.Format(*date), games)
}

func (h *ChatHandlers) handleRank(ctx context.Context, msg *tgbotapi.Message) error {
	date, err := chatdomain.ParseRankDate(strings.Fields(msg.CommandArguments()), h.today(msg))
	if err != nil {
		return err
	}
	board, err := h.rankings.Leaderboard(ctx, msg.Chat.ID, date)
	if err != nil {
		return err
	}
	return h.reply(msg.Chat.ID, render.Rankings(date, board), nil)
}

func (h *ChatHandlers) handleGames(ctx context.Context, msg *tgbotapi.Message) error {
	date, err := chatdomain.ParseGamesDate(strings.Fields(msg.CommandArguments()), h.today(msg))
	if err != nil {
		return err
	}
	games, err := h.games.ListGames(ctx, msg.Chat.ID, date)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return h.reply(msg.Chat.ID, render.NoGamesOn(calendar.Format(date)), nil)
	}
	return h.sendGames(msg.Chat.ID, calendar.Format(date), games)
}

func (h *ChatHandlers) handleChart(ctx context.Context, msg *tgbotapi.Message) error {
	date, err := chatdomain.ParseRankDate(strings.Fields(msg.CommandArguments()), h.today(msg))
	if err != nil {
		return err
	}
	png, err := h.rankings.Chart(ctx, msg.Chat.ID, date)
	if err != nil {
		return err
	}

	label := "All Time"
	if date != nil {
		label = calendar.Format(*date)
	}
	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "rankings.png", Bytes: png})
	photo.Caption = fmt.Sprintf(render.ChartCaptionText, label)
	if _, err := h.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send chart: %w", err)
	}
	return nil
}

func (h *ChatHandlers) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	from, to, err := chatdomain.ParseExportRange(strings.Fields(msg.CommandArguments()), h.today(msg))
	if err != nil {
		return err
	}
	data, err := h.games.ExportGames(ctx, msg.Chat.ID, from, to)
	if err != nil {
		return err
	}

	fromText, toText := calendar.Format(from), calendar.Format(to)
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("games_%s_%s.xlsx", fromText, toText),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf(render.ExportCaptionText, fromText, toText)
	if _, err := h.bot.Send(doc); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}
	return nil
}

// handleDateEntry consumes plain text while the sender is in the custom date
// step of the rankings menu. Other text is ignored.
func (h *ChatHandlers) handleDateEntry(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Text == "" || msg.Chat.IsPrivate() {
		return nil
	}
	key := h.stateKey(msg.Chat.ID, msg.From)
	current, err := h.states.Get(ctx, key)
	if err != nil {
		return err
	}
	if current != chatdomain.StateAwaitingDate {
		return nil
	}

	date, parseErr := chatdomain.ParseDateEntry(msg.Text, msg.Time(), h.location)
	if parseErr != nil {
		if err := h.states.Set(ctx, key, chatdomain.Next(current, chatdomain.EventInvalidDate)); err != nil {
			return err
		}
		cancel := render.CancelKeyboard()
		return h.reply(msg.Chat.ID, render.InvalidDateText, &cancel)
	}

	if err := h.states.Set(ctx, key, chatdomain.Next(current, chatdomain.EventValidDate)); err != nil {
		return err
	}
	board, err := h.rankings.Leaderboard(ctx, msg.Chat.ID, &date)
	if err != nil {
		return err
	}
	back := render.BackToRankings()
	return h.reply(msg.Chat.ID, render.RankingsForDate(date, board), &back)
}

func (h *ChatHandlers) sendGames(chatID int64, date string, games []gamedb.Game) error {
	for _, page := range render.GamesList(date, games) {
		if err := h.reply(chatID, page.Text, page.Markup); err != nil {
			return err
		}
	}
	return nil
}

func participant(p playerdb.Player) gameservice.Participant {
	out := gameservice.Participant{ID: p.ID, ChatID: p.ChatID, Name: p.FirstName}
	if p.Username != nil {
		out.Username = *p.Username
	}
	return out
}

func entities(in []tgbotapi.MessageEntity) []chatdomain.Entity {
	out := make([]chatdomain.Entity, 0, len(in))
	for _, e := range in {
		ent := chatdomain.Entity{Type: e.Type, Offset: e.Offset, Length: e.Length}
		if e.User != nil {
			ent.UserID = e.User.ID
			ent.FirstName = e.User.FirstName
		}
		out = append(out, ent)
	}
	return out
}

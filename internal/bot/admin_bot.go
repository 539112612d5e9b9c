package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/redisdb"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdminBot - телеграм-бот бэк-офиса: команды админов и уведомления
// о событиях ядра. Реализует service.AdminNotifier.
type AdminBot struct {
	bot      *tgbotapi.BotAPI
	adminIDs []int64
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger

	deps Deps
}

// Deps - зависимости команд бота
type Deps struct {
	Settings     *config.Settings
	SettingsRepo *repository.SettingsRepository
	Members      *repository.MemberRepository
	Journal      *repository.TransactionRepository
	Boards       *repository.LeaderboardRepository
	Prizes       *repository.PrizeRepository
	Audit        *repository.AuditRepository
	Grants       *service.GrantService
	Tournaments  *service.TournamentService
	Projector    *redisdb.BoardProjector
}

func NewAdminBot(token string, adminIDs []int64, deps Deps) (*AdminBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "admin_bot")
	log.Info("admin bot authorized", "username", api.Self.UserName)

	return &AdminBot{
		bot:      api,
		adminIDs: adminIDs,
		stopCh:   make(chan struct{}),
		log:      log,
		deps:     deps,
	}, nil
}

// Start запускает прослушивание команд
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop плавно останавливает бота
func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		b.log.Warn("timeout waiting for handlers")
	}
}

func (b *AdminBot) isAdmin(id int64) bool {
	for _, a := range b.adminIDs {
		if a == id {
			return true
		}
	}
	return false
}

func (b *AdminBot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.bot.Send(msg); err != nil {
		b.log.Warn("failed to send message", "error", err)
	}
}

func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, "Команды:\n"+
			"/set <ключ> <значение> - изменить настройку\n"+
			"/airdrop <pfid> <приз> - выдать приз игроку\n"+
			"/tournament <pfid> <комиссия> <очки> [место] - занести результат турнира\n"+
			"/player <pfid> - сводка по игроку\n"+
			"/redeem <билет> - погасить призовой билет при выдаче\n"+
			"/month_close - закрыть месяц лидерборда\n"+
			"/rebuild_boards - перезалить redis проекции\n"+
			"/audit [действие] - последние действия админов")

	case "set":
		parts := strings.SplitN(msg.CommandArguments(), " ", 2)
		if len(parts) != 2 {
			b.reply(msg.Chat.ID, "формат: /set <ключ> <значение>")
			return
		}
		key, value := parts[0], strings.TrimSpace(parts[1])
		if err := b.deps.SettingsRepo.Set(ctx, key, value); err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		b.deps.Settings.Invalidate()
		b.record(ctx, msg.From.ID, domain.AuditActionSettingSet, map[string]interface{}{"key": key, "value": value})
		b.reply(msg.Chat.ID, fmt.Sprintf("записано: %s = %s", key, value))

	case "airdrop":
		parts := strings.SplitN(msg.CommandArguments(), " ", 2)
		if len(parts) != 2 {
			b.reply(msg.Chat.ID, "формат: /airdrop <pfid> <название приза>")
			return
		}
		pfid, prize := parts[0], strings.TrimSpace(parts[1])
		ticket, err := b.deps.Grants.IssueNamed(ctx, pfid, prize, domain.PrizeSourceAirdrop)
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		b.record(ctx, msg.From.ID, domain.AuditActionAirdrop, map[string]interface{}{"pfid": pfid, "prize": prize})
		b.reply(msg.Chat.ID, fmt.Sprintf("выдан билет %s игроку %s", ticket.ID, pfid))

	case "tournament":
		args := strings.Fields(msg.CommandArguments())
		if len(args) < 3 {
			b.reply(msg.Chat.ID, "формат: /tournament <pfid> <комиссия> <очки> [место]")
			return
		}
		fee, err1 := strconv.ParseInt(args[1], 10, 64)
		points, err2 := strconv.ParseInt(args[2], 10, 64)
		if err1 != nil || err2 != nil {
			b.reply(msg.Chat.ID, "комиссия и очки должны быть числами")
			return
		}
		rank := 0
		if len(args) > 3 {
			rank, _ = strconv.Atoi(args[3])
		}
		rec, err := b.deps.Tournaments.Record(ctx, args[0], 0, fee, points, rank)
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		b.record(ctx, msg.From.ID, domain.AuditActionTournament, map[string]interface{}{
			"pfid": args[0], "fee": fee, "points": points, "rank": rank,
		})
		b.reply(msg.Chat.ID, fmt.Sprintf("турнир #%d записан: %s, +%d XP, +%d очков", rec.ID, args[0], fee, points))

	case "player":
		pfid := strings.TrimSpace(msg.CommandArguments())
		if pfid == "" {
			b.reply(msg.Chat.ID, "формат: /player <pfid>")
			return
		}
		m, err := b.deps.Members.GetByID(ctx, pfid)
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		heroPts, err := b.deps.Boards.HeroPoints(ctx, pfid)
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		since := time.Now().AddDate(0, 0, -30)
		bets, _ := b.deps.Journal.SumSince(ctx, pfid, domain.TxActionBet, "", since)
		wins, _ := b.deps.Journal.SumSince(ctx, pfid, domain.TxActionWin, "", since)
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"%s (%s)\nXP: %d, бонус: %d, VP: %d\nочки героя: %d, vip: %d\nза 30 дней: ставки %d, выигрыши %d",
			m.Name, m.PFID, m.XP, m.BonusXP, m.VIPPoints, heroPts, m.VIPLevel, bets, wins))

	case "redeem":
		ticketID := strings.TrimSpace(msg.CommandArguments())
		if ticketID == "" {
			b.reply(msg.Chat.ID, "формат: /redeem <id билета>")
			return
		}
		t, err := b.deps.Prizes.Redeem(ctx, ticketID)
		if err != nil {
			b.reply(msg.Chat.ID, "билет не найден или уже погашен")
			return
		}
		b.record(ctx, msg.From.ID, domain.AuditActionRedeem, map[string]interface{}{"ticket": t.ID, "pfid": t.PlayerID})
		b.reply(msg.Chat.ID, fmt.Sprintf("погашен: «%s» игрока %s", t.PrizeName, t.PlayerID))

	case "month_close":
		winner, err := b.deps.Boards.CloseMonth(ctx, time.Now())
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		b.deps.Projector.ResetMonthly(ctx)
		if winner == nil {
			b.reply(msg.Chat.ID, "лидерборд пуст, месяц закрыт без победителя")
			return
		}
		b.record(ctx, msg.From.ID, domain.AuditActionMonthClose, map[string]interface{}{"winner": winner.PlayerID, "points": winner.Points})
		b.reply(msg.Chat.ID, fmt.Sprintf("бог месяца: %s (%d очков)", winner.Name, winner.Points))

	case "rebuild_boards":
		hero, err := b.deps.Boards.TopHero(ctx, 1000)
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		monthly, err := b.deps.Boards.TopMonthly(ctx, 1000)
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		b.deps.Projector.Rebuild(ctx, redisdb.KeyHeroBoard, hero)
		b.deps.Projector.Rebuild(ctx, redisdb.KeyMonthlyBoard, monthly)
		b.reply(msg.Chat.ID, fmt.Sprintf("проекции перестроены: hero %d, monthly %d", len(hero), len(monthly)))

	case "audit":
		action := strings.TrimSpace(msg.CommandArguments())
		var logs []*domain.AdminAudit
		var err error
		if action != "" {
			logs, err = b.deps.Audit.ListByAction(ctx, action, 15)
		} else {
			logs, err = b.deps.Audit.Recent(ctx, 15)
		}
		if err != nil {
			b.reply(msg.Chat.ID, "ошибка: "+err.Error())
			return
		}
		if len(logs) == 0 {
			b.reply(msg.Chat.ID, "журнал пуст")
			return
		}
		var sb strings.Builder
		for _, l := range logs {
			fmt.Fprintf(&sb, "%s %d %s %v\n", l.CreatedAt.Format("01-02 15:04"), l.AdminID, l.Action, l.Details)
		}
		b.reply(msg.Chat.ID, sb.String())

	default:
		b.reply(msg.Chat.ID, "неизвестная команда, /help")
	}
}

func (b *AdminBot) record(ctx context.Context, adminID int64, action string, details map[string]interface{}) {
	err := b.deps.Audit.Create(ctx, &domain.AdminAudit{AdminID: adminID, Action: action, Details: details})
	if err != nil {
		b.log.Warn("failed to write audit record", "action", action, "error", err)
	}
}

// рассылка всем админам
func (b *AdminBot) notifyAll(text string) {
	for _, id := range b.adminIDs {
		b.reply(id, text)
	}
}

// NotifyPrizeIssued сообщает о выданном призовом билете
func (b *AdminBot) NotifyPrizeIssued(playerID, prizeName, source string) {
	b.notifyAll(fmt.Sprintf("🎁 приз «%s» выдан игроку %s (%s)", prizeName, playerID, source))
}

// NotifyStockDepleted сообщает об исчерпании остатка
func (b *AdminBot) NotifyStockDepleted(itemName string) {
	b.notifyAll(fmt.Sprintf("⚠️ остаток «%s» исчерпан", itemName))
}

// NotifyBigWin сообщает о крупном выигрыше
func (b *AdminBot) NotifyBigWin(playerID, gameType string, amount int64) {
	b.notifyAll(fmt.Sprintf("💰 крупный выигрыш: %s выиграл %d XP в %s", playerID, amount, gameType))
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	logger "github.com/ElrondNetwork/elrond-go-logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/config"
	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/storage"
	"github.com/DrDelphi/LuckeeBot/store"
	"github.com/DrDelphi/LuckeeBot/utils"
	"github.com/DrDelphi/LuckeeBot/wallet"
)

var log = logger.GetOrCreate("bot")

const requestTimeout = time.Minute

// Gateway is the contract surface the bot needs; implemented by network.Gateway
type Gateway interface {
	lottery.ContractWriter
	wallet.BalanceSource
	GetLotteryResult(ctx context.Context, sessionID string) (*data.LotteryResult, error)
}

// RoundSource yields the last polled round; implemented by lottery.Poller
type RoundSource interface {
	Round() (data.LotteryRound, bool)
	BlockHeight() uint64
	NetworkStatus() data.NetworkStatus
}

type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Args groups the dependencies of a Bot
type Args struct {
	Config   *data.AppConfig
	Gateway  Gateway
	Rounds   RoundSource
	Clock    *lottery.PhaseClock
	KV       storage.KV
	TxSender wallet.TxSender
	Decimals int32
}

// Bot - holds the required fields of the bot application
type Bot struct {
	tgBot    *tgbotapi.BotAPI
	send     messenger
	cfg      *data.AppConfig
	gateway  Gateway
	rounds   RoundSource
	clock    *lottery.PhaseClock
	kv       storage.KV
	txSender wallet.TxSender
	decimals int32
	views    *views
	now      func() time.Time

	mu       sync.RWMutex
	users    map[int64]*data.User
	tgUsers  map[int64]*data.Telegram
	sessions map[int64]*session

	lastInfoMessage int
}

// NewBot - creates a new Bot object
func NewBot(args Args) (*Bot, error) {
	tgBot, err := tgbotapi.NewBotAPI(args.Config.Bot.Token)
	if err != nil {
		log.Error("can not create telegram bot", "error", err)
		return nil, err
	}

	b := newBot(args, tgBot)
	b.tgBot = tgBot

	return b, nil
}

func newBot(args Args, send messenger) *Bot {
	clock := args.Clock
	if clock == nil {
		clock = lottery.NewPhaseClock(lottery.DefaultSchedule())
	}

	helpMessage = strings.ReplaceAll(helpMessage, "@LuckeeBot", "@"+args.Config.Bot.Group)

	return &Bot{
		send:     send,
		cfg:      args.Config,
		gateway:  args.Gateway,
		rounds:   args.Rounds,
		clock:    clock,
		kv:       args.KV,
		txSender: args.TxSender,
		decimals: args.Decimals,
		now:      time.Now,
		views: &views{
			decimals:        args.Decimals,
			ticker:          utils.DisplayTicker,
			explorerTx:      args.Config.Network.ExplorerTransaction,
			explorerAccount: args.Config.Network.ExplorerAccount,
		},
		users:    make(map[int64]*data.User),
		tgUsers:  make(map[int64]*data.Telegram),
		sessions: make(map[int64]*session),
	}
}

// StartTasks - starts listening for Telegram updates until ctx is done
func (b *Bot) StartTasks(ctx context.Context) {
	go func() {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates, err := b.tgBot.GetUpdatesChan(u)
		if err != nil {
			log.Error("can not get Telegram bot updates", "error", err)
			panic(err)
		}
		updates.Clear()

		go func() {
			<-ctx.Done()
			b.tgBot.StopReceivingUpdates()
		}()

		for update := range updates {
			b.handleUpdate(update)
		}
	}()
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		if update.Message.Chat.IsPrivate() {
			// private
			if update.Message.IsCommand() {
				go b.privateCommandReceived(update.Message)
				return
			}
			go b.privateMessageReceived(update.Message)
		} else {
			// public
			if b.cfg.Bot.GroupID == 0 && update.Message.Chat.UserName == b.cfg.Bot.Group {
				b.cfg.Bot.GroupID = update.Message.Chat.ID
				_ = config.Save(b.cfg)
			}
			if update.Message.IsCommand() {
				b.send.Send(tgbotapi.DeleteMessageConfig{ChatID: update.Message.Chat.ID, MessageID: update.Message.MessageID})
				return
			}
		}
	}
	if update.CallbackQuery != nil {
		go b.callbackQueryReceived(update.CallbackQuery)
	}
}

func (b *Bot) reportError(text string) {
	if b.cfg.Bot.Owner == 0 {
		return
	}

	msg := tgbotapi.NewMessage(b.cfg.Bot.Owner, "⛔️ "+text)
	b.send.Send(msg)
}

func (b *Bot) sendToGroup(text string) (tgbotapi.Message, error) {
	if b.cfg.Bot.GroupID == 0 {
		return tgbotapi.Message{}, errors.New("group not known yet")
	}

	msg := tgbotapi.NewMessage(b.cfg.Bot.GroupID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	res, err := b.send.Send(msg)
	if err != nil {
		log.Warn("error sending message to group", "message", text, "error", err)
	}

	return res, err
}

func (b *Bot) sendMessage(userID int64, text string) (tgbotapi.Message, error) {
	return b.sendMarkup(userID, text, nil)
}

func (b *Bot) sendMarkup(userID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	b.mu.RLock()
	user, ok := b.users[userID]
	tgUser := b.tgUsers[userID]
	b.mu.RUnlock()
	if user == nil || !ok {
		return tgbotapi.Message{}, errors.New("user not found")
	}

	name := ""
	if tgUser != nil {
		name = fmt.Sprintf("@%s (%s %s)", tgUser.UserName, tgUser.FirstName, tgUser.LastName)
		log.Info("sent message", "user", name, "message", text)
	}
	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	res, err := b.send.Send(msg)
	if err != nil {
		log.Warn("error sending message", "user", name, "message", text, "error", err.Error())
	}

	return res, err
}

func (b *Bot) currentRound() (data.LotteryRound, bool) {
	if b.rounds == nil {
		return data.LotteryRound{}, false
	}

	return b.rounds.Round()
}

func (b *Bot) gameInfo() string {
	height := uint64(0)
	status := data.NetworkConnecting
	if b.rounds != nil {
		height = b.rounds.BlockHeight()
		status = b.rounds.NetworkStatus()
	}

	round, ok := b.currentRound()
	if !ok {
		return b.views.gameInfo(nil, lottery.PhaseEstimate{}, height, status)
	}

	est := b.clock.Estimate(round.StartTime, b.now())
	return b.views.gameInfo(&round, est, height, status)
}

func (b *Bot) getOrCreateUser(tgUser *tgbotapi.User) (*data.User, *session, error) {
	id := int64(tgUser.ID)

	b.mu.Lock()
	defer b.mu.Unlock()

	tg, ok := b.tgUsers[id]
	if !ok || tg.UserName != tgUser.UserName || tg.FirstName != tgUser.FirstName || tg.LastName != tgUser.LastName {
		b.tgUsers[id] = &data.Telegram{
			ID:        id,
			UserName:  tgUser.UserName,
			FirstName: tgUser.FirstName,
			LastName:  tgUser.LastName,
		}
	}

	user, ok := b.users[id]
	if ok {
		return user, b.sessions[id], nil
	}

	user = &data.User{ID: id}
	b.users[id] = user

	s, err := b.newSession(user)
	if err != nil {
		delete(b.users, id)
		log.Error("can not create user session", "user", id, "error", err)
		return nil, nil, err
	}
	user.Wallet = s.local.Address()
	b.sessions[id] = s

	return user, s, nil
}

func (b *Bot) getUserByAddress(address string) *data.User {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, user := range b.users {
		if user.Wallet == address {
			return user
		}
	}

	return nil
}

func (b *Bot) allSessions() []*session {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res := make([]*session, 0, len(b.sessions))
	for _, s := range b.sessions {
		res = append(res, s)
	}

	return res
}

// RoundTargets returns the stores the session poller refreshes
func (b *Bot) RoundTargets() []lottery.RoundTarget {
	sessions := b.allSessions()
	res := make([]lottery.RoundTarget, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, s.state)
	}

	return res
}

// BalanceRefreshers returns the wallets the status poller refreshes
func (b *Bot) BalanceRefreshers() []lottery.BalanceRefresher {
	sessions := b.allSessions()
	res := make([]lottery.BalanceRefresher, 0, len(sessions))
	for _, s := range sessions {
		if s.adapter.Connected() {
			res = append(res, s.adapter)
		}
	}

	return res
}

// UserStore returns the state store of a known user
func (b *Bot) UserStore(userID int64) (*store.Store, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.sessions[userID]
	if !ok {
		return nil, false
	}

	return s.state, true
}

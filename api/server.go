package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	logger "github.com/ElrondNetwork/elrond-go-logger"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/store"
)

var log = logger.GetOrCreate("api")

const (
	requestTimeout  = 10 * time.Second
	defaultPageSize = 10
	maxPageSize     = 100
	trendDays       = 7
	hotNumbers      = 10
)

// ContractReader is the query surface the API exposes; implemented by network.Gateway
type ContractReader interface {
	GetConfig(ctx context.Context) (*data.ContractConfig, error)
	GetStats(ctx context.Context) (*data.StatsInfo, error)
	GetVersion(ctx context.Context) (*data.VersionInfo, error)
	GetLotteryResult(ctx context.Context, sessionID string) (*data.LotteryResult, error)
}

// RoundSource yields the last polled round; implemented by lottery.Poller
type RoundSource interface {
	Round() (data.LotteryRound, bool)
	BlockHeight() uint64
	NetworkStatus() data.NetworkStatus
}

// UserStores resolves the store of a bot user; implemented by bot.Bot
type UserStores interface {
	UserStore(userID int64) (*store.Store, bool)
}

// Args groups the dependencies of a Server
type Args struct {
	Contract ContractReader
	Rounds   RoundSource
	Users    UserStores
	Clock    *lottery.PhaseClock
	Now      func() time.Time
}

// Server serves read-only JSON views of the lottery
type Server struct {
	app  *fiber.App
	args Args
}

func NewServer(args Args) *Server {
	if args.Clock == nil {
		args.Clock = lottery.NewPhaseClock(lottery.DefaultSchedule())
	}
	if args.Now == nil {
		args.Now = time.Now
	}

	s := &Server{
		app:  fiber.New(fiber.Config{DisableStartupMessage: true}),
		args: args,
	}

	s.app.Get("/health", s.health)

	api := s.app.Group("/api")
	api.Get("/round", s.round)
	api.Get("/contract", s.contract)
	api.Get("/users/:id/history", s.history)
	api.Get("/users/:id/analysis", s.analysis)
	api.Get("/results/:session", s.result)

	return s
}

// App exposes the fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on addr until Shutdown
func (s *Server) Start(addr string) error {
	log.Info("api listening", "address", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	status := data.NetworkConnecting
	if s.args.Rounds != nil {
		status = s.args.Rounds.NetworkStatus()
	}

	return c.JSON(fiber.Map{"status": "ok", "network": status})
}

type roundResponse struct {
	Round       data.LotteryRound  `json:"round"`
	Phase       data.Phase         `json:"estimatedPhase"`
	RemainingMs int64              `json:"remainingMs"`
	Progress    int                `json:"progress"`
	BlockHeight uint64             `json:"blockHeight"`
	Network     data.NetworkStatus `json:"network"`
}

func (s *Server) round(c *fiber.Ctx) error {
	if s.args.Rounds == nil {
		return fail(c, fiber.StatusNotFound, lottery.ErrNoRound)
	}

	round, ok := s.args.Rounds.Round()
	if !ok {
		return fail(c, fiber.StatusNotFound, lottery.ErrNoRound)
	}

	est := s.args.Clock.Estimate(round.StartTime, s.args.Now())

	return c.JSON(roundResponse{
		Round:       round,
		Phase:       est.Phase,
		RemainingMs: est.Remaining.Milliseconds(),
		Progress:    est.Progress(),
		BlockHeight: s.args.Rounds.BlockHeight(),
		Network:     s.args.Rounds.NetworkStatus(),
	})
}

type contractResponse struct {
	Config  *data.ContractConfig `json:"config"`
	Stats   *data.StatsInfo      `json:"stats"`
	Version *data.VersionInfo    `json:"version"`
}

func (s *Server) contract(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	res := contractResponse{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Config, err = s.args.Contract.GetConfig(gctx)
		return err
	})
	g.Go(func() (err error) {
		res.Stats, err = s.args.Contract.GetStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		res.Version, err = s.args.Contract.GetVersion(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn("contract info", "error", err)
		return fail(c, fiber.StatusBadGateway, err)
	}

	return c.JSON(res)
}

var errUnknownUser = errors.New("unknown user")

func (s *Server) userStore(c *fiber.Ctx) (*store.Store, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	if s.args.Users == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, errUnknownUser.Error())
	}

	st, ok := s.args.Users.UserStore(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, errUnknownUser.Error())
	}

	return st, nil
}

func failFiber(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, errors.New(fe.Message))
	}

	return fail(c, fiber.StatusInternalServerError, err)
}

type historyResponse struct {
	Items []*data.BetRecord `json:"items"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Total int               `json:"total"`
}

func (s *Server) history(c *fiber.Ctx) error {
	st, err := s.userStore(c)
	if err != nil {
		return failFiber(c, err)
	}

	filter := lottery.HistoryFilter{
		Status: lottery.HistoryStatus(c.Query("status", string(lottery.StatusAll))),
		Search: c.Query("search"),
	}
	switch filter.Status {
	case lottery.StatusAll, lottery.StatusWon, lottery.StatusLost, lottery.StatusPending:
	default:
		return fail(c, fiber.StatusBadRequest, errors.New("unknown status filter"))
	}

	size := c.QueryInt("size", defaultPageSize)
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}

	bets := lottery.FilterHistory(st.History(), filter)
	items, page, pages := lottery.Paginate(bets, c.QueryInt("page", 1), size)
	if items == nil {
		items = []*data.BetRecord{}
	}

	return c.JSON(historyResponse{
		Items: items,
		Page:  page,
		Pages: pages,
		Total: len(bets),
	})
}

type analysisResponse struct {
	Stats  data.LotteryStats     `json:"stats"`
	Hot    []lottery.NumberCount `json:"hotNumbers"`
	Ranges []lottery.RangeBucket `json:"ranges"`
	Trend  []lottery.DayTrend    `json:"trend"`
}

func (s *Server) analysis(c *fiber.Ctx) error {
	st, err := s.userStore(c)
	if err != nil {
		return failFiber(c, err)
	}

	history := st.History()
	stats := lottery.ComputeStats(history)

	return c.JSON(analysisResponse{
		Stats:  stats,
		Hot:    lottery.HotNumbers(stats.NumberFrequency, hotNumbers),
		Ranges: lottery.RangeDistribution(stats.NumberFrequency),
		Trend:  lottery.DailyTrend(history, s.args.Now(), trendDays),
	})
}

func (s *Server) result(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	res, err := s.args.Contract.GetLotteryResult(ctx, c.Params("session"))
	if err != nil {
		log.Debug("lottery result", "session", c.Params("session"), "error", err)
		return fail(c, fiber.StatusBadGateway, err)
	}

	return c.JSON(res)
}

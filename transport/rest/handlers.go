package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/entity"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/usecase"
)

type gameManager interface {
	CreateSession(ctx context.Context) (*usecase.View, error)
	GetSession(ctx context.Context, id string) (*usecase.View, error)
	DeleteSession(ctx context.Context, id string) error

	JoinGame(ctx context.Context, id string, player entity.Identity) (*usecase.View, error)
	ResetPlayers(ctx context.Context, id string) (*usecase.View, error)
	ResetBoard(ctx context.Context, id string) (*usecase.View, error)
	StartGame(ctx context.Context, id string) (*usecase.View, error)
	ToggleCurrentPlayer(ctx context.Context, id string) (*usecase.View, error)
	Move(ctx context.Context, id string, player entity.Identity, position int) (*usecase.View, error)
	Deposit(ctx context.Context, id string, player entity.Identity, amount int64) (*usecase.View, error)

	GetBalance(ctx context.Context, id string) (int64, error)
	GetBoard(ctx context.Context, id string) (entity.Board, error)
	GetPlayers(ctx context.Context, id string) ([2]entity.Identity, error)
	GetCurrentPlayer(ctx context.Context, id string) (entity.Identity, error)
	GetNumberOfTurns(ctx context.Context, id string) (int, error)
	GetRows() []string
}

var errBadBody = errors.New("invalid request body")

type moveRequest struct {
	Position *int `json:"position"`
}

type depositRequest struct {
	Amount int64 `json:"amount"`
}

type boardResponse struct {
	Board string `json:"board"`
	Cells []int  `json:"cells"`
}

type sessionHandlers struct {
	logger  *slog.Logger
	manager gameManager
}

func newSessionHandlers(logger *slog.Logger, manager gameManager) *sessionHandlers {
	return &sessionHandlers{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

func (that *sessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (that *sessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.GetSession(r.Context(), sessionID(r))
	that.respond(w, view, err)
}

func (that *sessionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.DeleteSession(r.Context(), sessionID(r)); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *sessionHandlers) Join(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.JoinGame(r.Context(), sessionID(r), playerFromContext(r.Context()))
	that.respond(w, view, err)
}

func (that *sessionHandlers) ResetPlayers(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.ResetPlayers(r.Context(), sessionID(r))
	that.respond(w, view, err)
}

func (that *sessionHandlers) ResetBoard(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.ResetBoard(r.Context(), sessionID(r))
	that.respond(w, view, err)
}

func (that *sessionHandlers) Start(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.StartGame(r.Context(), sessionID(r))
	that.respond(w, view, err)
}

func (that *sessionHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	view, err := that.manager.ToggleCurrentPlayer(r.Context(), sessionID(r))
	that.respond(w, view, err)
}

func (that *sessionHandlers) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		writeErr(w, http.StatusBadRequest, errBadBody.Error(), "")
		return
	}

	view, err := that.manager.Move(r.Context(), sessionID(r), playerFromContext(r.Context()), *req.Position)
	that.respond(w, view, err)
}

func (that *sessionHandlers) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errBadBody.Error(), "")
		return
	}

	view, err := that.manager.Deposit(r.Context(), sessionID(r), playerFromContext(r.Context()), req.Amount)
	that.respond(w, view, err)
}

func (that *sessionHandlers) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := that.manager.GetBalance(r.Context(), sessionID(r))
	that.respond(w, map[string]int64{"balance": balance}, err)
}

func (that *sessionHandlers) Board(w http.ResponseWriter, r *http.Request) {
	board, err := that.manager.GetBoard(r.Context(), sessionID(r))
	that.respond(w, boardResponse{Board: board.String(), Cells: board.Ints()}, err)
}

func (that *sessionHandlers) Players(w http.ResponseWriter, r *http.Request) {
	players, err := that.manager.GetPlayers(r.Context(), sessionID(r))
	that.respond(w, map[string][2]entity.Identity{"players": players}, err)
}

func (that *sessionHandlers) CurrentPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.manager.GetCurrentPlayer(r.Context(), sessionID(r))
	that.respond(w, map[string]entity.Identity{"current_player": player}, err)
}

func (that *sessionHandlers) Turns(w http.ResponseWriter, r *http.Request) {
	turns, err := that.manager.GetNumberOfTurns(r.Context(), sessionID(r))
	that.respond(w, map[string]int{"turns": turns}, err)
}

func (that *sessionHandlers) Rows(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rows": that.manager.GetRows()})
}

func (that *sessionHandlers) respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, body)
}

func (that *sessionHandlers) writeError(w http.ResponseWriter, err error) {
	status, kind := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	writeErr(w, status, err.Error(), kind)
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/IldarReact/LifeSim-sub003/internal/catalog"
	"github.com/IldarReact/LifeSim-sub003/internal/collab"
	"github.com/IldarReact/LifeSim-sub003/internal/config"
	"github.com/IldarReact/LifeSim-sub003/internal/sim"
	"github.com/IldarReact/LifeSim-sub003/internal/store"
)

type Server struct {
	cfg     config.APIConfig
	log     *slog.Logger
	store   *store.Store
	catalog catalog.Catalog
	orch    *sim.Orchestrator
	collab  *collab.Client
	mux     *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, st *store.Store, cat catalog.Catalog, orch *sim.Orchestrator, hub *collab.Client) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		log:     logger,
		store:   st,
		catalog: cat,
		orch:    orch,
		collab:  hub,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog/countries", s.handleCatalogCountries)
		r.Get("/catalog/businesses", s.handleCatalogBusinesses)
		r.Get("/catalog/education", s.handleCatalogEducation)

		r.Post("/games", s.handleCreateGame)
		r.Get("/games", s.handleListGames)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Delete("/", s.handleDeleteGame)
			r.Post("/advance", s.handleAdvance)
			r.Get("/peers", s.handlePeers)

			r.Post("/businesses", s.handleFoundBusiness)
			r.Get("/businesses/{business_id}/preview", s.handlePreviewQuarter)
			r.Post("/businesses/{business_id}/changes", s.handleRequestChange)
			r.Get("/candidates", s.handleCandidates)

			r.Post("/proposals/{proposal_id}/votes", s.handleVote)

			r.Post("/debts", s.handleOriginateDebt)
			r.Post("/debts/{debt_id}/payments", s.handlePayDebt)
			r.Post("/debts/{debt_id}/repay", s.handleRepayEarly)

			r.Post("/education", s.handleEnroll)
		})
	})
}

func (s *Server) handleCatalogCountries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Countries)
}

func (s *Server) handleCatalogBusinesses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Businesses)
}

func (s *Server) handleCatalogEducation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Education)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PlayerName string `json:"player_name"`
		CountryID  string `json:"country_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.PlayerName = strings.TrimSpace(in.PlayerName)
	if in.PlayerName == "" {
		writeError(w, http.StatusBadRequest, "player_name is required")
		return
	}
	if _, ok := s.catalog.CountryByID(in.CountryID); !ok {
		writeError(w, http.StatusBadRequest, "unknown country_id")
		return
	}

	state := sim.NewGame(in.PlayerName, in.CountryID, s.catalog.Countries)
	id, err := s.store.CreateGame(r.Context(), state)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("game created", "game_id", id, "player", in.PlayerName, "country", in.CountryID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "state": state})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListGames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": out})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameView(state))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	var notes []sim.Notification
	state, err := s.store.UpdateGame(r.Context(), gameID, func(cur sim.State) (sim.State, error) {
		next, n, err := s.orch.Advance(cur)
		if err != nil {
			return cur, err
		}
		notes = n
		return next, nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.collab.Enabled() {
		ev := collab.Event{GameID: gameID, Kind: collab.EventTurnAdvanced, Turn: state.Turn}
		if state.Status == sim.StatusEnded {
			ev.Kind = collab.EventGameOver
			ev.Message = string(state.DefeatReason)
		}
		if err := s.collab.Publish(r.Context(), ev); err != nil {
			s.log.Warn("collab publish failed", "game_id", gameID, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":         gameView(state),
		"notifications": notes,
	})
}

func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	if !s.collab.Enabled() {
		writeJSON(w, http.StatusOK, map[string]any{"peers": []string{}})
		return
	}
	peers, err := s.collab.Peers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if peers == nil {
		peers = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"peers": peers})
}

func (s *Server) handleFoundBusiness(w http.ResponseWriter, r *http.Request) {
	var in struct {
		TemplateID string `json:"template_id"`
		Name       string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tmpl, ok := s.catalog.BusinessByID(in.TemplateID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown template_id")
		return
	}

	var created sim.Business
	state, err := s.store.UpdateGame(r.Context(), chi.URLParam(r, "id"), func(cur sim.State) (sim.State, error) {
		if cur.Status == sim.StatusEnded {
			return cur, sim.ErrGameEnded
		}
		if cur.Player.Cash < tmpl.InitialCost {
			return cur, sim.ErrInsufficientFunds
		}
		created = s.catalog.NewBusiness(tmpl, uuid.NewString(), in.Name, cur.Turn)
		cur.Player.Cash -= tmpl.InitialCost
		cur.Businesses = append(cur.Businesses, created)
		return cur, nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"business": created, "cash": state.Player.Cash})
}

func (s *Server) handlePreviewQuarter(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := sim.PreviewBusinessQuarter(state, chi.URLParam(r, "business_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRequestChange(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ChangeType sim.ChangeType      `json:"change_type"`
		Payload    sim.ProposalPayload `json:"payload"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gameID := chi.URLParam(r, "id")
	businessID := chi.URLParam(r, "business_id")
	var opened *sim.BusinessProposal
	state, err := s.store.UpdateGame(r.Context(), gameID, func(cur sim.State) (sim.State, error) {
		next, prop, err := sim.RequestChange(cur, businessID, in.ChangeType, in.Payload)
		if err != nil {
			return cur, err
		}
		opened = prop
		return next, nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if opened != nil {
		if s.collab.Enabled() {
			ev := collab.Event{
				GameID:  gameID,
				Kind:    collab.EventProposalOpened,
				Message: string(opened.ChangeType),
				Turn:    state.Turn,
			}
			if err := s.collab.Publish(r.Context(), ev); err != nil {
				s.log.Warn("collab publish failed", "game_id", gameID, "err", err)
			}
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"proposal": opened})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": true, "state": gameView(state)})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	econ, _ := sim.CountryByID(state, state.Player.CountryID)
	writeJSON(w, http.StatusOK, map[string]any{
		"candidates": sim.GenerateCandidates(econ, sim.NewTimeSource(), 6),
	})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Approve bool `json:"approve"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gameID := chi.URLParam(r, "id")
	proposalID := chi.URLParam(r, "proposal_id")
	state, err := s.store.UpdateGame(r.Context(), gameID, func(cur sim.State) (sim.State, error) {
		return sim.Vote(cur, proposalID, in.Approve)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var settled *sim.BusinessProposal
	for i := range state.Proposals {
		if state.Proposals[i].ID == proposalID {
			settled = &state.Proposals[i]
			break
		}
	}
	if settled != nil && settled.Status != sim.ProposalPending && s.collab.Enabled() {
		ev := collab.Event{
			GameID:  gameID,
			Kind:    collab.EventProposalSettled,
			Message: string(settled.Status),
			Turn:    state.Turn,
		}
		if err := s.collab.Publish(r.Context(), ev); err != nil {
			s.log.Warn("collab publish failed", "game_id", gameID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"proposal": settled, "state": gameView(state)})
}

func (s *Server) handleOriginateDebt(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Type       sim.DebtType `json:"type"`
		Amount     int64        `json:"amount"`
		TermMonths int          `json:"term_months"`
		Name       string       `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var booked sim.Debt
	state, err := s.store.UpdateGame(r.Context(), chi.URLParam(r, "id"), func(cur sim.State) (sim.State, error) {
		next, d, err := sim.OriginateDebt(cur, in.Type, in.Amount, in.TermMonths, in.Name)
		if err != nil {
			return cur, err
		}
		booked = d
		return next, nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"debt": booked, "cash": state.Player.Cash})
}

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	debtID := chi.URLParam(r, "debt_id")
	state, err := s.store.UpdateGame(r.Context(), chi.URLParam(r, "id"), func(cur sim.State) (sim.State, error) {
		return sim.PayDebtQuarter(cur, debtID)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debts": state.Player.Debts, "cash": state.Player.Cash})
}

func (s *Server) handleRepayEarly(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	debtID := chi.URLParam(r, "debt_id")
	state, err := s.store.UpdateGame(r.Context(), chi.URLParam(r, "id"), func(cur sim.State) (sim.State, error) {
		return sim.RepayEarly(cur, debtID, in.Amount)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debts": state.Player.Debts, "cash": state.Player.Cash})
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CourseID string `json:"course_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	course, ok := s.catalog.CourseByID(in.CourseID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown course_id")
		return
	}

	var paid int64
	state, err := s.store.UpdateGame(r.Context(), chi.URLParam(r, "id"), func(cur sim.State) (sim.State, error) {
		if cur.Status == sim.StatusEnded {
			return cur, sim.ErrGameEnded
		}
		econ, _ := sim.CountryByID(cur, cur.Player.CountryID)
		paid = sim.InflatedEducationPrice(course.BasePrice, econ)
		if cur.Player.Cash < paid {
			return cur, sim.ErrInsufficientFunds
		}
		cur.Player.Cash -= paid
		cur.Player.Life.Intelligence = minFloat(cur.Player.Life.Intelligence+course.IntelligenceGain, 100)
		return cur, nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paid":         paid,
		"intelligence": state.Player.Life.Intelligence,
		"cash":         state.Player.Cash,
	})
}

// gameView is the read-model sent to clients: the raw state plus derived
// numbers the UI would otherwise recompute.
func gameView(state sim.State) map[string]any {
	return map[string]any{
		"state":     state,
		"net_worth": sim.NetWorth(state),
		"credit_rating": sim.CreditRating(
			state.Player.Debts, state.Player.MonthlyIncome, state.Player.Cash),
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, sim.ErrBusinessNotFound),
		errors.Is(err, sim.ErrProposalNotFound),
		errors.Is(err, sim.ErrDebtNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sim.ErrTurnInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sim.ErrGameEnded),
		errors.Is(err, sim.ErrProposalSettled),
		errors.Is(err, sim.ErrAlreadyVoted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sim.ErrNotAVoter):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, sim.ErrInsufficientFunds),
		errors.Is(err, sim.ErrLoanRejected),
		errors.Is(err, sim.ErrInvalidLoanTerm),
		errors.Is(err, sim.ErrApprovalRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

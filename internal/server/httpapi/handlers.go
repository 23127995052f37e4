package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ciclone-ptc/ciclone/internal/server/models"
	adsrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/ads"
	productsrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/products"
	"github.com/ciclone-ptc/ciclone/internal/server/services"
)

// accountJSON is the public shape of an account. The password hash never
// leaves the server.
type accountJSON struct {
	ID                int64           `json:"id"`
	Nome              string          `json:"nome"`
	Email             string          `json:"email"`
	ChavePix          string          `json:"chavepix"`
	Telefone          string          `json:"telefone"`
	Avatar            string          `json:"avatar,omitempty"`
	RecebendoCreditos bool            `json:"recebendo_creditos"`
	LimiteAtingido    bool            `json:"limite_atingido"`
	Saldo             decimal.Decimal `json:"saldo_redisponivel"`
	DataCriacao       time.Time       `json:"data_criacao"`
}

func toAccountJSON(a *models.Account) *accountJSON {
	return &accountJSON{
		ID:                a.ID,
		Nome:              a.Nome,
		Email:             a.Email,
		ChavePix:          a.ChavePix,
		Telefone:          a.Telefone,
		Avatar:            a.Avatar,
		RecebendoCreditos: a.ReceivingCredits,
		LimiteAtingido:    a.CapReached,
		Saldo:             a.Balance,
		DataCriacao:       a.CreatedAt,
	}
}

type counterJSON struct {
	Email           string     `json:"email"`
	TotalClicks     int64      `json:"total_clicks"`
	ClicksHoje      int64      `json:"clicks_hoje"`
	DataUltimoClick *time.Time `json:"data_ultimo_click,omitempty"`
}

func toCounterJSON(c *models.ClickCounter) *counterJSON {
	return &counterJSON{
		Email:           c.Email,
		TotalClicks:     c.TotalClicks,
		ClicksHoje:      c.ClicksToday,
		DataUltimoClick: c.LastClickAt,
	}
}

// --- health ---

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "banco de dados indisponivel")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

// --- accounts & auth ---

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome     string `json:"nome"`
		Email    string `json:"email"`
		Senha    string `json:"senha"`
		ChavePix string `json:"chavepix"`
		Telefone string `json:"telefone"`
		Avatar   string `json:"avatar"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}

	account, err := s.users.Register(r.Context(), &services.RegisterRequest{
		Nome:     req.Nome,
		Email:    req.Email,
		Senha:    req.Senha,
		ChavePix: req.ChavePix,
		Telefone: req.Telefone,
		Avatar:   req.Avatar,
	})
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "error", err.Error())
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "account registered", "email", account.Email)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "usuario": toAccountJSON(account)})
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}

	account, pair, err := s.users.Login(r.Context(), req.Email, req.Senha)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"usuario":       toAccountJSON(account),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *HTTPServer) handleLoginCompleto(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}

	account, counter, pair, err := s.users.LoginCompleto(r.Context(), req.Email, req.Senha)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"usuario":       toAccountJSON(account),
		"clicks":        toCounterJSON(counter),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *HTTPServer) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "user_id invalido")
		return
	}

	account, counter, err := s.users.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"usuario": toAccountJSON(account),
		"clicks":  toCounterJSON(counter),
	})
}

// --- clicks & credit rotation ---

type clickRequest struct {
	Email string `json:"email"`
}

func (s *HTTPServer) handleRecordClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email obrigatorio")
		return
	}

	counter, err := s.credits.RecordClick(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "clicks": toCounterJSON(counter)})
}

func (s *HTTPServer) handleSetClicksToday(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	var req struct {
		ClicksHoje int64 `json:"clicks_hoje"`
	}
	if err := decodeJSON(r, &req); err != nil || email == "" {
		writeError(w, http.StatusBadRequest, "dados invalidos")
		return
	}

	counter, err := s.credits.SetClicksToday(r.Context(), email, req.ClicksHoje)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "clicks": toCounterJSON(counter)})
}

func (s *HTTPServer) handleRegisterClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		AnuncioID int64  `json:"anuncio_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email obrigatorio")
		return
	}

	outcome, err := s.credits.RegisterClick(r.Context(), req.Email)
	if err != nil {
		s.logger.Warn(r.Context(), "click rejected", "email", req.Email, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "click credited",
		"email", req.Email, "recipient_id", outcome.RecipientID, "rotated", outcome.CapReached)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"clicks":          toCounterJSON(outcome.Counter),
		"beneficiado_id":  outcome.RecipientID,
		"novo_saldo":      outcome.NewBalance,
		"limite_atingido": outcome.CapReached,
	})
}

func (s *HTTPServer) handleActivateCredits(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email obrigatorio")
		return
	}

	account, err := s.credits.ActivateCredits(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "usuario": toAccountJSON(account)})
}

func (s *HTTPServer) handleStartCredits(w http.ResponseWriter, r *http.Request) {
	account, err := s.credits.StartCredits(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recebendo": toAccountJSON(account)})
}

// --- catalog ---

func listFilterFromQuery(r *http.Request) (categoria string, limit uint64) {
	categoria = r.URL.Query().Get("categoria")
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			limit = n
		}
	}
	return categoria, limit
}

func (s *HTTPServer) handleListAds(w http.ResponseWriter, r *http.Request) {
	categoria, limit := listFilterFromQuery(r)
	ads, err := s.catalog.ListAds(r.Context(), adsrepo.ListFilter{Categoria: categoria, Limit: limit})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "anuncios": ads})
}

func (s *HTTPServer) handleGetAd(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id invalido")
		return
	}
	ad, err := s.catalog.GetAd(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "anuncio": ad})
}

func (s *HTTPServer) handleCreateAd(w http.ResponseWriter, r *http.Request) {
	var ad models.Ad
	if err := decodeJSON(r, &ad); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}
	if !ad.Ativo {
		ad.Ativo = true
	}
	created, err := s.catalog.CreateAd(r.Context(), &ad)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "anuncio": created})
}

func (s *HTTPServer) handleListProducts(w http.ResponseWriter, r *http.Request) {
	categoria, limit := listFilterFromQuery(r)
	products, err := s.catalog.ListProducts(r.Context(), productsrepo.ListFilter{Categoria: categoria, Limit: limit})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "produtos": products})
}

func (s *HTTPServer) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id invalido")
		return
	}
	product, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "produto": product})
}

func (s *HTTPServer) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}
	if !product.Ativo {
		product.Ativo = true
	}
	created, err := s.catalog.CreateProduct(r.Context(), &product)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "produto": created})
}

// --- ratings ---

type ratingRequest struct {
	Email     string `json:"email"`
	ProdutoID int64  `json:"produto_id"`
	Nota      int    `json:"nota"`
}

func (s *HTTPServer) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}

	outcome, err := s.ratings.SubmitRating(r.Context(), req.Email, req.ProdutoID, req.Nota)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"avaliacao": outcome.Rating,
		"stats":     outcome.Stats,
	})
}

func (s *HTTPServer) handleRateProduct(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json invalido")
		return
	}

	outcome, err := s.ratings.RateProduct(r.Context(), req.Email, req.ProdutoID, req.Nota)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"avaliacao":      outcome.Rating,
		"stats":          outcome.Stats,
		"beneficiado_id": outcome.Click.RecipientID,
		"novo_saldo":     outcome.Click.NewBalance,
	})
}

func (s *HTTPServer) handleProductStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id invalido")
		return
	}
	stats, err := s.ratings.GetStats(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

// --- statistics ---

func (s *HTTPServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Statistics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "estatisticas": stats})
}

// --- avatars ---

func (s *HTTPServer) handleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.avatars.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	s.logger.Info(r.Context(), "avatar upload url issued",
		"user_id", userIDFromContext(r.Context()), "key", key)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "key": key, "upload_url": url})
}

func (s *HTTPServer) handleAvatarURL(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "user_id invalido")
		return
	}
	url, err := s.avatars.GetAvatarURL(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "url": url})
}

package apikey

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/dto"
	"github.com/pixledger/pixpay/internal/service/apikeyservice"
	"github.com/pixledger/pixpay/pkg/utils"
	"github.com/pixledger/pixpay/pkg/validate"
)

type Service interface {
	Issue(ctx context.Context, userID int) (*domain.APIKey, string, error)
	Revoke(ctx context.Context, prefix string) error
}

type APIKeyHandler struct {
	apiKeyService Service
}

func New(apiKeyService Service) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyService: apiKeyService,
	}
}

// Issue godoc
//
//	@Summary		Issue an API key
//	@Description	Mint a bearer token for a merchant. The plaintext token appears only in this response.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateAPIKeyRequestDTO	true	"Owning merchant"
//	@Success		201		{object}	dto.CreateAPIKeyResponseDTO	"Issued key with its plaintext token"
//	@Failure		400		{object}	utils.Response				"Invalid payload"
//	@Failure		401		{object}	utils.Response				"Not authorized"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/v1/admin/api-keys [post]
func (h *APIKeyHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAPIKeyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, token, err := h.apiKeyService.Issue(r.Context(), req.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.CreateAPIKeyResponseDTO{
		Success:   true,
		KeyID:     key.ID,
		Token:     token,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt,
	})
}

// Revoke godoc
//
//	@Summary		Revoke an API key
//	@Description	Mark the key revoked so authentication with it fails from now on.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RevokeAPIKeyRequestDTO	true	"Key prefix to revoke"
//	@Success		200		{object}	dto.RevokeAPIKeyResponseDTO	"Key revoked"
//	@Failure		400		{object}	utils.Response				"Invalid payload"
//	@Failure		401		{object}	utils.Response				"Not authorized"
//	@Failure		404		{object}	utils.Response				"Key not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/v1/admin/api-keys/revoke [post]
func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req dto.RevokeAPIKeyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.apiKeyService.Revoke(r.Context(), req.KeyPrefix); err != nil {
		if errors.Is(err, apikeyservice.ErrKeyNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.RevokeAPIKeyResponseDTO{
		Success:   true,
		KeyPrefix: req.KeyPrefix,
	})
}

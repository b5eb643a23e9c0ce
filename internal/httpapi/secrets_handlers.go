package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"jobrank-engine/internal/config"
	"jobrank-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setAdzunaCredsReq struct {
	AppID  string `json:"app_id"`
	AppKey string `json:"app_key"`
}

func (h SecretsHandler) SetAdzunaCreds(w http.ResponseWriter, r *http.Request) {
	var req setAdzunaCredsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if err := secrets.Set(secrets.AccountAdzunaAppID, req.AppID); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", err.Error())
		return
	}
	if err := secrets.Set(secrets.AccountAdzunaAppKey, req.AppKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setIMAPPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	var req setIMAPPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	ea := cfg.Sources.EmailAlerts
	account := secrets.IMAPAccount(ea.Username, ea.IMAPHost)
	if err := secrets.Set(account, req.Password); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

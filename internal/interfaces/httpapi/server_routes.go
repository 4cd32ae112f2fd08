package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedule", handler.GetScheduleInfo)
	mux.HandleFunc("GET /v1/schedule/next-battle-date", handler.GetNextBattleDate)
	mux.HandleFunc("GET /v1/clans/{clanID}/battles", handler.ListBattleRecords)
	mux.HandleFunc("GET /v1/clans/{clanID}/battles/{battleID}/players", handler.ListBattlePlayers)
	mux.HandleFunc("GET /v1/clans/{clanID}/trends", handler.GetTrends)
	mux.HandleFunc("GET /v1/clans/{clanID}/summaries/monthly/{month}", handler.GetMonthlySummary)
	mux.HandleFunc("GET /v1/clans/{clanID}/summaries/yearly/{year}", handler.GetYearlySummary)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("PUT /v1/schedule/next-battle-date", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpdateNextBattleDate)))
	mux.Handle("POST /v1/battles", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateBattle)))
	mux.Handle("PUT /v1/clans/{clanID}/battles/{battleID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.SaveBattleRecord)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/internal/jobs/schedule-tick", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunScheduleTick)))
	mux.Handle("POST /v1/internal/jobs/recalculate", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunRecalculation)))
}

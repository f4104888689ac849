package web

import "net/http"

// registerRoutes attaches all application handlers to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/plan", handlePlan)
	mux.HandleFunc("/plan.ics", handlePlanICS)
	mux.HandleFunc("/plan/email", handlePlanEmail)
	mux.HandleFunc("/guide", handleGuide)
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/__perf", handlePerf)
}

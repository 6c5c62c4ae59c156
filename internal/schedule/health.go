package schedule

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthResponse struct {
	Status  string      `json:"status"`
	Running bool        `json:"running"`
	Runs    int64       `json:"runs"`
	Failed  int64       `json:"failed"`
	Next    time.Time   `json:"next"`
	LastRun *lastRunDTO `json:"last_run,omitempty"`
}

type lastRunDTO struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error,omitempty"`
}

// Handler serves /health with the last run result. A failed last run
// answers 503.
func (s *Scheduler) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		st := s.Status()

		health := healthResponse{
			Status:  "healthy",
			Running: st.Running,
			Runs:    st.Runs,
			Failed:  st.Failed,
			Next:    st.Next,
		}
		if st.Last != nil {
			health.LastRun = &lastRunDTO{
				RunID:    st.Last.RunID.String(),
				Started:  st.Last.Started,
				Finished: st.Last.Finished,
				Attempts: st.Last.Attempts,
			}
			if st.Last.Err != nil {
				health.LastRun.Error = st.Last.Err.Error()
			}
		}
		if !st.Healthy() {
			health.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if !st.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}

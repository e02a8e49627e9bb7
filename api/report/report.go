package report

import (
	"fmt"
	"log"
	"net/http"

	"PagRecon/internal/config"

	"github.com/gorilla/mux"
)

// StartReportService runs the delta-reporting vertical's HTTP listener.
func StartReportService(cfg map[string]interface{}) {
	port := config.DefaultReportPort
	if cfg != nil {
		if p, ok := cfg["port"].(int); ok && p > 0 {
			port = p
		}
	}

	router := mux.NewRouter()
	router.HandleFunc("/report/delta", DeltaHandler).Methods("POST", "OPTIONS")
	router.HandleFunc("/report/delta/session", DeltaSessionHandler).Methods("POST", "OPTIONS")
	router.HandleFunc("/report/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Report Service is healthy"))
	}).Methods("GET")

	log.Printf("Report Service started on :%d", port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), router)
	if err != nil {
		log.Fatalf("Report Service failed: %v", err)
	}
}

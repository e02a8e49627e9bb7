package recon

import (
	"fmt"
	"log"
	"net/http"

	"PagRecon/internal/config"

	"github.com/gorilla/mux"
)

// StartReconService runs the reconciliation vertical's HTTP listener.
func StartReconService(cfg map[string]interface{}) {
	port := config.DefaultReconPort
	if cfg != nil {
		if p, ok := cfg["port"].(int); ok && p > 0 {
			port = p
		}
	}

	router := mux.NewRouter()
	router.HandleFunc("/recon/process", ProcessHandler).Methods("POST", "OPTIONS")
	router.HandleFunc("/recon/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Recon Service is healthy"))
	}).Methods("GET")

	log.Printf("Recon Service started on :%d", port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), router)
	if err != nil {
		log.Fatalf("Recon Service failed: %v", err)
	}
}

package recon

import "PagRecon/internal/serviceiface"

type ReconService struct {
	config map[string]interface{}
}

func NewReconService(cfg map[string]interface{}) serviceiface.Service {
	return &ReconService{config: cfg}
}

func (s *ReconService) Name() string {
	return "recon"
}

func (s *ReconService) Start() error {
	go StartReconService(s.config)
	return nil
}

func (s *ReconService) Stop() error {
	return nil
}

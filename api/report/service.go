package report

import "PagRecon/internal/serviceiface"

type ReportService struct {
	config map[string]interface{}
}

func NewReportService(cfg map[string]interface{}) serviceiface.Service {
	return &ReportService{config: cfg}
}

func (s *ReportService) Name() string {
	return "report"
}

func (s *ReportService) Start() error {
	go StartReportService(s.config)
	return nil
}

func (s *ReportService) Stop() error {
	return nil
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/me/edgesentry/internal/compare"
	"github.com/me/edgesentry/internal/policy"
	"github.com/me/edgesentry/internal/workload"
	"github.com/me/edgesentry/pkg/model"
)

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Uptime     string `json:"uptime"`
	Classifier string `json:"classifier"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	s.mu.Lock()
	classifier := "unfitted"
	if s.tree != nil {
		classifier = "fitted"
	}
	s.mu.Unlock()

	respondOK(w, reqID, healthResponse{
		Status:     "healthy",
		Version:    "0.1.0",
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Classifier: classifier,
	})
}

type policyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	s.mu.Lock()
	fitted := s.tree != nil
	s.mu.Unlock()

	respondOK(w, reqID, []policyInfo{
		{Name: "round-robin", Description: "arrival order against a fixed budget, no priority awareness", Available: true},
		{Name: "strict-priority", Description: "priority-sorted admission against the same budget", Available: true},
		{Name: "intelligent", Description: "decision-tree run/drop verdicts from local task features", Available: fitted},
	})
}

type scenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Batches     int    `json:"batches"`
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	out := make([]scenarioInfo, 0, 3)
	for _, sc := range workload.Scenarios() {
		out = append(out, scenarioInfo{Name: sc.Name, Description: sc.Description, Batches: sc.Batches})
	}
	respondOK(w, reqID, out)
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req model.TrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	scenarios := s.config.Scenarios
	if req.Scenarios != nil {
		scenarios = *req.Scenarios
	}
	seed := s.config.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	tree, err := s.trainer.Train(scenarios, seed)
	if err != nil {
		var ide *model.InsufficientDataError
		if errors.As(err, &ide) {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
			return
		}
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()

	respondOK(w, reqID, model.TrainResponse{
		Examples: tree.Examples(),
		Depth:    tree.Depth(),
		Rules:    tree.String(),
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := RequestIDFromContext(ctx)

	var req model.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}

	batches := req.Batches
	if len(batches) == 0 {
		scenario, ok := workload.ScenarioByName(req.Scenario)
		if !ok {
			respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("scenario", req.Scenario))
			return
		}
		seed := req.Seed
		if seed == 0 {
			seed = s.config.Seed
		}
		batches = workload.NewGenerator(seed).Workload(scenario)
	}

	// One comparison run at a time: the decision log is single-writer.
	s.mu.Lock()
	defer s.mu.Unlock()

	policies := []policy.Policy{
		policy.NewRoundRobin(s.config.BudgetPercent, s.logger),
		policy.NewStrictPriority(s.config.BudgetPercent, s.logger),
	}
	if s.tree != nil {
		policies = append(policies, policy.NewIntelligent(s.tree, s.logger))
	}

	if err := s.store.Reset(ctx); err != nil {
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	comparator := compare.New(s.estimator, s.store, s.recorder, s.config.DecayFactor, s.logger)
	results, err := comparator.CompareAll(ctx, batches, policies)
	if err != nil {
		var ite *model.InvalidTaskError
		if errors.As(err, &ite) {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
			return
		}
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	respondOK(w, reqID, model.CompareResponse{Metrics: results})
}

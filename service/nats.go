package service

import (
	"context"
	"encoding/json"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/natsclient"
)

// NATS subjects for the analysis surface.
const (
	SubjectAnalyzeRoutes     = "conceptmri.routes.analyze"
	SubjectAnalysisCompleted = "conceptmri.analysis.completed"
)

// BindNATS exposes the analyzer over NATS: request/reply analysis on
// SubjectAnalyzeRoutes, and a completed-analysis event published on
// SubjectAnalysisCompleted for every successful run.
func (a *Analyzer) BindNATS(ctx context.Context, client *natsclient.Client) error {
	if client == nil {
		return errors.WrapInvalid(errors.ErrMissingConfig, "service", "BindNATS", "nats client cannot be nil")
	}

	err := client.SubscribeReply(ctx, SubjectAnalyzeRoutes, func(ctx context.Context, data []byte) ([]byte, error) {
		var req AnalyzeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, errors.WrapInvalid(err, "service", "BindNATS", "decode analyze request")
		}

		response, err := a.AnalyzeRoutes(ctx, req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(response)
	})
	if err != nil {
		return err
	}

	a.OnCompleted(func(event CompletedEvent) {
		if err := client.PublishJSON(ctx, SubjectAnalysisCompleted, event); err != nil {
			a.logger.Warn("publish completed event", "analysis", event.AnalysisID, "error", err)
		}
	})
	return nil
}

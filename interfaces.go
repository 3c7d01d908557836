package medqa

import (
	"github.com/datar-psa/medqa/api"
)

type Status = api.Status

const (
	StatusPass    = api.StatusPass
	StatusWarning = api.StatusWarning
	StatusReject  = api.StatusReject
)

type VerdictRecord = api.VerdictRecord
type ScoreCard = api.ScoreCard
type EvaluationMetric = api.EvaluationMetric

type LLMGenerator = api.LLMGenerator
type ModerationProvider = api.ModerationProvider
type ModerationCategory = api.ModerationCategory
type ModerationResult = api.ModerationResult

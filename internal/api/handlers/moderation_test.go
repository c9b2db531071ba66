package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperguard/internal/domain/models"
	"whisperguard/internal/infrastructure/database/repository"
	"whisperguard/internal/moderation"
	"whisperguard/pkg/logger"
)

const scamText = "Security alert: unusual activity detected. Verify your account and confirm your identity at http://example.com. Make money fast, earn money online, work from home, get rich quick!"

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zerolog.Nop()}
}

func newTestModerationHandler() *ModerationHandler {
	engine := moderation.NewEngine(moderation.DefaultEngineConfig(), nil, nil, testLogger())
	return NewModerationHandler(engine, nil, nil, nil, testLogger())
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestModerationHandler_Screen(t *testing.T) {
	h := newTestModerationHandler()

	rec := postJSON(t, h.Screen, "/api/v1/moderation/screen", ScreenRequest{Text: scamText})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SpamAnalysisResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.IsScam)
	assert.NotEmpty(t, result.ContentFlags)
}

func TestModerationHandler_Screen_CleanText(t *testing.T) {
	h := newTestModerationHandler()

	rec := postJSON(t, h.Screen, "/api/v1/moderation/screen", ScreenRequest{Text: "a quiet note about the weekend"})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SpamAnalysisResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.IsSpam)
	assert.False(t, result.IsScam)
	assert.Equal(t, models.ActionWarn, result.SuggestedAction)
}

func TestModerationHandler_Screen_InvalidBody(t *testing.T) {
	h := newTestModerationHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/moderation/screen", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Screen(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationHandler_ScreenBatch(t *testing.T) {
	h := newTestModerationHandler()

	rec := postJSON(t, h.ScreenBatch, "/api/v1/moderation/screen/batch", ScreenBatchRequest{
		Texts: []string{scamText, "a harmless whisper", ""},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.SpamAnalysisResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	require.Len(t, results, 3)
	assert.True(t, results[0].IsScam)
	assert.False(t, results[1].IsScam)
}

func TestModerationHandler_ScreenBatch_Limits(t *testing.T) {
	h := newTestModerationHandler()

	t.Run("empty batch", func(t *testing.T) {
		rec := postJSON(t, h.ScreenBatch, "/api/v1/moderation/screen/batch", ScreenBatchRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized batch", func(t *testing.T) {
		texts := make([]string, maxBatchSize+1)
		rec := postJSON(t, h.ScreenBatch, "/api/v1/moderation/screen/batch", ScreenBatchRequest{Texts: texts})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModerationHandler_Analyze(t *testing.T) {
	h := newTestModerationHandler()

	req := AnalyzeRequest{
		WhisperID: uuid.New(),
		AuthorID:  uuid.New(),
		Text:      scamText,
	}
	rec := postJSON(t, h.Analyze, "/api/v1/moderation/analyze", req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.IsScam)
	assert.Equal(t, models.ActionFlag, resp.Result.SuggestedAction)
	assert.Empty(t, resp.Violations, "nothing recorded without the record flag")
}

func TestModerationHandler_Analyze_MissingAuthor(t *testing.T) {
	h := newTestModerationHandler()

	rec := postJSON(t, h.Analyze, "/api/v1/moderation/analyze", AnalyzeRequest{Text: "hello"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationHandler_Analyze_SuppliedReputation(t *testing.T) {
	h := newTestModerationHandler()

	req := AnalyzeRequest{
		WhisperID:  uuid.New(),
		AuthorID:   uuid.New(),
		Text:       scamText,
		Reputation: &models.ReputationSnapshot{Level: models.TrustLevelTrusted, Score: 95, TotalWhispers: 2000},
	}
	rec := postJSON(t, h.Analyze, "/api/v1/moderation/analyze", req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, models.ActionWarn, resp.Result.SuggestedAction, "trusted authors take the lenient column")
}

func TestModerationHandler_ConvertViolations(t *testing.T) {
	h := newTestModerationHandler()

	t.Run("spam and scam result yields two records", func(t *testing.T) {
		req := ConvertRequest{
			UserID:    uuid.New(),
			WhisperID: uuid.New(),
			Result: &models.SpamAnalysisResult{
				IsSpam:          true,
				IsScam:          true,
				SpamScore:       0.55,
				ScamScore:       0.9,
				SuggestedAction: models.ActionReject,
				Reason:          "content resembles a phishing attempt",
			},
		}
		rec := postJSON(t, h.ConvertViolations, "/api/v1/moderation/violations", req)

		require.Equal(t, http.StatusOK, rec.Code)

		var violations []models.Violation
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&violations))
		require.Len(t, violations, 2)
		assert.Equal(t, models.ViolationTypeScam, violations[0].Type)
		assert.Equal(t, models.ViolationTypeSpam, violations[1].Type)
	})

	t.Run("clean result yields empty list", func(t *testing.T) {
		req := ConvertRequest{
			UserID:    uuid.New(),
			WhisperID: uuid.New(),
			Result:    &models.SpamAnalysisResult{SuggestedAction: models.ActionWarn},
		}
		rec := postJSON(t, h.ConvertViolations, "/api/v1/moderation/violations", req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("missing result", func(t *testing.T) {
		rec := postJSON(t, h.ConvertViolations, "/api/v1/moderation/violations", ConvertRequest{UserID: uuid.New()})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModerationHandler_ListViolations_NoStore(t *testing.T) {
	h := newTestModerationHandler()

	r := chi.NewRouter()
	r.Get("/violations/{userID}", h.ListViolations)

	req := httptest.NewRequest(http.MethodGet, "/violations/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestModerationHandler_ListViolations_InvalidMinSeverity(t *testing.T) {
	engine := moderation.NewEngine(moderation.DefaultEngineConfig(), nil, nil, testLogger())
	h := NewModerationHandler(engine, repository.NewViolationRepository(nil), nil, nil, testLogger())

	r := chi.NewRouter()
	r.Get("/violations/{userID}", h.ListViolations)

	req := httptest.NewRequest(http.MethodGet, "/violations/"+uuid.NewString()+"?min_severity=bogus", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterBySeverity(t *testing.T) {
	violations := []models.Violation{
		{Severity: models.SeverityLow},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityCritical},
	}

	t.Run("high keeps high and critical", func(t *testing.T) {
		filtered := filterBySeverity(violations, models.SeverityHigh)
		require.Len(t, filtered, 2)
		assert.Equal(t, models.SeverityHigh, filtered[0].Severity)
		assert.Equal(t, models.SeverityCritical, filtered[1].Severity)
	})

	t.Run("low keeps everything", func(t *testing.T) {
		assert.Len(t, filterBySeverity(violations, models.SeverityLow), 4)
	})

	t.Run("critical keeps only critical", func(t *testing.T) {
		filtered := filterBySeverity(violations, models.SeverityCritical)
		require.Len(t, filtered, 1)
		assert.Equal(t, models.SeverityCritical, filtered[0].Severity)
	})
}

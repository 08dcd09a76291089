package anonymizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/fieldcipher"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/testutils"
)

func newTestService(t *testing.T, recognizer models.EntityRecognizer) *Service {
	t.Helper()
	cipher, err := fieldcipher.New(testutils.TestCryptoKey)
	require.NoError(t, err)
	return NewService(recognizer, cipher, testutils.NewTestConfig().Recognizer)
}

func TestServiceAnalyze(t *testing.T) {
	rec := &testutils.StubRecognizer{Spans: testutils.FIRTextSpans}
	svc := newTestService(t, rec)

	spans, err := svc.Analyze(context.Background(), testutils.FIRText, nil)
	require.NoError(t, err)
	assert.Len(t, spans, 6)
	assert.Equal(t, "IN_AADHAAR", spans[1].EntityType)
	require.NoError(t, spans.Validate(models.TextLen(testutils.FIRText)))

	reqs := rec.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "en", reqs[0].Language)
	assert.Equal(t, 0.35, reqs[0].ScoreThreshold)
	assert.Contains(t, reqs[0].Entities, "IN_AADHAAR")
}

func TestServiceAnalyzeOptions(t *testing.T) {
	rec := &testutils.StubRecognizer{}
	svc := newTestService(t, rec)

	threshold := 0.8
	spans, err := svc.Analyze(context.Background(), "nothing to see", &models.AnalyzeOptions{
		Language:       "hi",
		Entities:       []string{"PERSON", "IN_PAN", "PERSON"},
		ScoreThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.NotNil(t, spans)
	assert.Empty(t, spans)

	req := rec.Requests()[0]
	assert.Equal(t, "hi", req.Language)
	assert.Equal(t, []string{"PERSON", "IN_PAN"}, req.Entities)
	assert.Equal(t, 0.8, req.ScoreThreshold)
}

func TestServiceAnalyzeEmptyTextSkipsRecognizer(t *testing.T) {
	rec := &testutils.StubRecognizer{Err: errors.New("must not be called")}
	svc := newTestService(t, rec)

	spans, err := svc.Analyze(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.Empty(t, rec.Requests())
}

func TestServiceRecognizerFailure(t *testing.T) {
	rec := &testutils.StubRecognizer{
		Err: models.NewRecognizerUnavailableError("stub", 502, errors.New("bad gateway")),
	}
	svc := newTestService(t, rec)

	_, err := svc.Analyze(context.Background(), testutils.FIRText, nil)
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)

	result, err := svc.Anonymize(context.Background(), &models.AnonymizeRequest{Text: testutils.FIRText})
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)
	assert.Nil(t, result)

	_, err = svc.AnnotateText(context.Background(), testutils.FIRText, nil)
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)
}

func TestServiceCancelledContext(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, testutils.FIRText, nil)
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)
}

func TestServiceRecognizerInvalidSpans(t *testing.T) {
	rec := &testutils.StubRecognizer{Spans: []models.Span{{Start: 5, End: 500, EntityType: "PERSON", Score: 1}}}
	svc := newTestService(t, rec)

	_, err := svc.Analyze(context.Background(), "short text", nil)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestServiceAnonymize(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{Spans: testutils.FIRTextSpans})

	result, err := svc.Anonymize(context.Background(), &models.AnonymizeRequest{
		Text: testutils.FIRText,
		Operators: models.OperatorSet{
			"IN_AADHAAR":              models.MaskConfig("X", 8, false),
			"PHONE_NUMBER":            models.MaskConfig("*", 6, true),
			"PERSON":                  {Type: models.OperatorEncrypt},
			models.DefaultOperatorKey: {Type: models.OperatorReplace},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, result.Text, "Aadhaar XXXXXXXX8317,")
	assert.Contains(t, result.Text, "PAN <IN_PAN>")
	assert.Contains(t, result.Text, "vehicle <IN_VEHICLE_REGISTRATION> near <LOCATION>.")
	assert.Contains(t, result.Text, "Contact 9876******.")
	assert.NotContains(t, result.Text, "Ravi Kumar")

	restored, err := svc.Deanonymize(result.Text, result.Items, "")
	require.NoError(t, err)
	assert.Contains(t, restored.Text, "Complainant Ravi Kumar, Aadhaar XXXXXXXX8317,")
	require.Len(t, restored.Items, 1)
	assert.Equal(t, "Ravi Kumar", restored.Items[0].Text)
}

func TestServiceAnonymizeDefaultsToReplace(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{})

	result, err := svc.Anonymize(context.Background(), &models.AnonymizeRequest{
		Text:            aadhaarText,
		AnalyzerResults: []models.Span{aadhaarSpan},
	})
	require.NoError(t, err)
	assert.Equal(t, "My aadhar number is <IN_AADHAAR>.", result.Text)
}

func TestServiceDeanonymizeWrongKey(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{Spans: []models.Span{aadhaarSpan}})

	result, err := svc.Anonymize(context.Background(), &models.AnonymizeRequest{
		Text:      aadhaarText,
		Operators: models.OperatorSet{models.DefaultOperatorKey: {Type: models.OperatorEncrypt}},
	})
	require.NoError(t, err)

	_, err = svc.Deanonymize(result.Text, result.Items, "0000000000000000")
	assert.ErrorIs(t, err, models.ErrDecryption)

	restored, err := svc.Deanonymize(result.Text, result.Items, testutils.TestCryptoKey)
	require.NoError(t, err)
	assert.Equal(t, aadhaarText, restored.Text)
}

func TestServiceAnnotateText(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{Spans: testutils.FIRTextSpans})

	resp, err := svc.AnnotateText(context.Background(), testutils.FIRText, nil)
	require.NoError(t, err)
	assert.Equal(t, testutils.FIRText, models.JoinSegments(resp.Segments))
	assert.Len(t, resp.Spans, 6)

	labels := []string{}
	for _, seg := range resp.Segments {
		if seg.IsEntity() {
			labels = append(labels, seg.Label)
		}
	}
	assert.Equal(t, []string{
		"PERSON", "IN_AADHAAR", "IN_PAN", "IN_VEHICLE_REGISTRATION", "LOCATION", "PHONE_NUMBER",
	}, labels)
}

func TestServiceProtectAndRevealFields(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{})

	fields, err := svc.ProtectFields(testutils.FIRFormFields)
	require.NoError(t, err)

	assert.NotContains(t, fields, "complainant_informant_passport_no")
	assert.Equal(t, models.FieldPlaintext, fields["district"].State)
	assert.Equal(t, "Bengaluru Urban", fields["district"].Value)
	assert.Equal(t, "District", fields["district"].Title)

	name := fields["complainant_informant_name"]
	assert.Equal(t, models.FieldCiphertext, name.State)
	assert.NotEqual(t, "Ravi Kumar", name.Value)
	assert.Equal(t, 5, name.Section)

	revealed := svc.RevealFields(fields, false)
	assert.Equal(t, models.FieldDecrypted, revealed["complainant_informant_name"].State)
	assert.Equal(t, "Ravi Kumar", revealed["complainant_informant_name"].Value)
	assert.Equal(t, fields["district"], revealed["district"])

	redacted := svc.RevealFields(fields, true)
	phone := redacted["complainant_informant_phone_no"]
	assert.Equal(t, models.FieldRedacted, phone.State)
	assert.Len(t, phone.Value, len("9876543210"))
	assert.Regexp(t, `^9\d{0,4}X+$`, phone.Value)

	assert.Equal(t, models.FieldCiphertext, fields["complainant_informant_name"].State)
}

func TestServiceRevealUndecryptable(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{})

	fields, err := svc.ProtectFields(testutils.FIRFormFields)
	require.NoError(t, err)

	broken := fields["fir_contents"]
	broken.Value = "bm90IGEgcmVhbCBjaXBoZXJ0ZXh0IGF0IGFsbA=="
	fields["fir_contents"] = broken

	revealed := svc.RevealFields(fields, true)
	assert.Equal(t, models.FieldUndecryptable, revealed["fir_contents"].State)
	assert.Empty(t, revealed["fir_contents"].Value)
	assert.Equal(t, models.FieldRedacted, revealed["complainant_informant_name"].State)
	assert.Equal(t, models.FieldPlaintext, revealed["crime_no"].State)
}

func TestServiceProtectUnknownField(t *testing.T) {
	svc := newTestService(t, &testutils.StubRecognizer{})

	_, err := svc.ProtectFields(map[string]models.FieldInput{"shoe_size": {Value: "9"}})
	assert.ErrorIs(t, err, models.ErrValidation)
}

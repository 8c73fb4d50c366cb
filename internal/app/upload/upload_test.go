package upload_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/adapters/storage/memory"
	"github.com/PabloGalante/studybuddy/internal/app/conversation"
	"github.com/PabloGalante/studybuddy/internal/app/upload"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

type fakeOCR struct {
	calls       int
	handwriting int
	res         *domain.OCRResult
	err         error
}

func (f *fakeOCR) AnalyzeImage(_ context.Context, _ []byte) (*domain.OCRResult, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeOCR) AnalyzeHandwriting(_ context.Context, _ []byte) (*domain.OCRResult, error) {
	f.calls++
	f.handwriting++
	return f.res, f.err
}

type echoLLM struct{ prompts []string }

func (e *echoLLM) GenerateReply(_ context.Context, req domain.GenerationRequest) (string, error) {
	e.prompts = append(e.prompts, req.Prompt)
	return "ok", nil
}

func png(name string) domain.Upload {
	return domain.Upload{Name: name, ContentType: "image/png", Size: 4, Data: []byte{1, 2, 3, 4}}
}

func userMessage(t *testing.T, err error) string {
	t.Helper()
	msg, ok := domain.UserMessage(err)
	require.True(t, ok, "expected a user-facing error, got %v", err)
	return msg
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	ocr := &fakeOCR{}
	a := upload.NewImageAnalyzer(ocr)

	_, err := a.Analyze(context.Background(), upload.AnalyzeInput{
		File: domain.Upload{Name: "notes.pdf", ContentType: "application/pdf"},
	})
	require.Error(t, err)
	assert.Equal(t, "Please upload a valid image file (JPG, PNG, etc.)", userMessage(t, err))
	assert.Zero(t, ocr.calls)
}

func TestAnalyzeEmptyExtraction(t *testing.T) {
	a := upload.NewImageAnalyzer(&fakeOCR{res: &domain.OCRResult{Text: "  "}})

	_, err := a.Analyze(context.Background(), upload.AnalyzeInput{File: png("blank.png")})
	assert.Equal(t, upload.MsgNoTextDetected, userMessage(t, err))
}

func TestAnalyzeCollaboratorFailure(t *testing.T) {
	cause := errors.New("quota")
	a := upload.NewImageAnalyzer(&fakeOCR{err: cause})

	_, err := a.Analyze(context.Background(), upload.AnalyzeInput{File: png("a.png")})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, upload.MsgAnalysisFailed, userMessage(t, err))
}

func TestAnalyzeNotConfigured(t *testing.T) {
	a := upload.NewImageAnalyzer(nil)

	_, err := a.Analyze(context.Background(), upload.AnalyzeInput{File: png("a.png")})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestAnalyzeHandwriting(t *testing.T) {
	ocr := &fakeOCR{res: &domain.OCRResult{Text: "x = 2", DocumentType: "Mathematics"}}
	a := upload.NewImageAnalyzer(ocr)

	res, err := a.Analyze(context.Background(), upload.AnalyzeInput{File: png("n.png"), Handwriting: true})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", res.DocumentType)
	assert.Equal(t, 1, ocr.handwriting)
}

func TestAnalyzeIntoSessionFeedsPrompt(t *testing.T) {
	ctx := context.Background()
	llm := &echoLLM{}
	sess := conversation.NewSession(conversation.SessionConfig{LLM: llm})
	a := upload.NewImageAnalyzer(&fakeOCR{res: &domain.OCRResult{Text: "a^2 + b^2 = c^2", DocumentType: "Mathematics"}})

	_, msg, err := a.AnalyzeInto(ctx, sess, upload.AnalyzeInput{File: png("pythagoras.png")})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "a^2 + b^2 = c^2")

	_, err = sess.Submit(ctx, "prove it")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "[Mathematics]: a^2 + b^2 = c^2")
}

func TestAnalyzeIntoFailureLeavesSessionUntouched(t *testing.T) {
	sess := conversation.NewSession(conversation.SessionConfig{LLM: &echoLLM{}})
	a := upload.NewImageAnalyzer(&fakeOCR{})

	_, _, err := a.AnalyzeInto(context.Background(), sess, upload.AnalyzeInput{
		File: domain.Upload{Name: "a.txt", ContentType: "text/plain"},
	})
	require.Error(t, err)
	assert.Len(t, sess.Messages(), 1)
	assert.Empty(t, sess.ExtractedContents())
}

func TestAvatarUpload(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	objects := memory.NewObjectStorage("http://localhost:8080/objects")
	require.NoError(t, store.CreateProfile(ctx, &domain.UserProfile{UserID: "u1", DisplayName: "Ada"}))

	svc := upload.NewAvatarService(objects, store)

	p, err := svc.Upload(ctx, "u1", png("me.png"))
	require.NoError(t, err)
	assert.Regexp(t, `^http://localhost:8080/objects/avatars/u1-\d+\.png$`, p.AvatarURL)
	first := p.AvatarURL

	time.Sleep(2 * time.Millisecond)
	p, err = svc.Upload(ctx, "u1", png("me2.jpeg"))
	require.NoError(t, err)
	assert.NotEqual(t, first, p.AvatarURL)
	assert.Equal(t, 1, objects.Len())
}

func TestAvatarValidation(t *testing.T) {
	svc := upload.NewAvatarService(memory.NewObjectStorage(""), memory.NewStore())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", domain.Upload{Name: "a.gif", ContentType: "text/plain"})
	assert.Equal(t, upload.MsgInvalidAvatar, userMessage(t, err))

	big := png("big.png")
	big.Size = upload.MaxAvatarBytes + 1
	_, err = svc.Upload(ctx, "u1", big)
	assert.Equal(t, upload.MsgAvatarTooLarge, userMessage(t, err))
}

func TestAvatarMissingProfile(t *testing.T) {
	svc := upload.NewAvatarService(memory.NewObjectStorage(""), memory.NewStore())

	_, err := svc.Upload(context.Background(), "ghost", png("a.png"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, upload.MsgAvatarFailed, userMessage(t, err))
}

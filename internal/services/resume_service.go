package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/justsurfingit/carreira-ia/internal/advisor"
	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/pdftext"
	"github.com/justsurfingit/carreira-ia/internal/storage"
	"golang.org/x/text/cases"
)

const (
	MaxResumeBytes = 10 << 20
	// MinAdvisoryLength is the shortest analysis or improved résumé accepted.
	MinAdvisoryLength = 100

	extractionFailedPrefix = "[Text extraction failed: "
)

type ResumeService struct {
	Store   ResumeStore
	Blobs   storage.BlobStore
	Advisor advisor.Client
	Extract func(data []byte) (string, error)
}

func NewResumeService(st ResumeStore, blobs storage.BlobStore, adv advisor.Client) *ResumeService {
	return &ResumeService{
		Store:   st,
		Blobs:   blobs,
		Advisor: adv,
		Extract: pdftext.Extract,
	}
}

// Upload stores the file and creates the résumé in "uploaded". A document
// whose text cannot be extracted is still stored, with a placeholder text.
func (s *ResumeService) Upload(ctx context.Context, userID uint, fileName, contentBase64 string) (*models.Resume, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("file_name is required: %w", apperrors.ErrInvalidInput)
	}
	data, err := decodeUpload(contentBase64)
	if err != nil {
		return nil, err
	}

	text, err := s.Extract(data)
	if err != nil {
		logger.LogErrorWithUser(userID, err, "resume text extraction failed, storing placeholder")
		text = extractionFailedPrefix + err.Error() + "]"
	}

	key := fmt.Sprintf("resumes/%d/%s-%s", userID, uuid.NewString(), blobName(fileName))
	url, err := s.Blobs.Put(ctx, key, data, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("store resume file: %w: %v", apperrors.ErrProviderUnavailable, err)
	}

	resume := &models.Resume{
		UserID:          userID,
		FileName:        fileName,
		FileKey:         key,
		FileURL:         url,
		OriginalContent: text,
		Status:          models.ResumeUploaded,
	}
	if err := s.Store.CreateResume(ctx, resume); err != nil {
		return nil, err
	}
	logger.LogSuccessWithUser(userID, "resume uploaded")
	return resume, nil
}

func decodeUpload(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, ";base64,"); strings.HasPrefix(content, "data:") && i > 0 {
		content = content[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("content_base64 is not valid base64: %w", apperrors.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty: %w", apperrors.ErrInvalidInput)
	}
	if len(data) > MaxResumeBytes {
		return nil, fmt.Errorf("file exceeds 10MB: %w", apperrors.ErrInvalidInput)
	}
	return data, nil
}

func blobName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := slug.Make(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if base == "" {
		base = "resume"
	}
	if ext == "" {
		ext = ".pdf"
	}
	return base + ext
}

// Analyze asks the advisor for improvement suggestions. The résumé is never
// left in "analyzing": every failure after that transition rolls it back to
// "uploaded".
func (s *ResumeService) Analyze(ctx context.Context, resumeID, requesterID uint) (string, error) {
	r, err := s.ownedResume(ctx, resumeID, requesterID)
	if err != nil {
		return "", err
	}
	if err := requireAIPlan(ctx, s.Store, requesterID); err != nil {
		return "", err
	}
	return s.analyze(ctx, r)
}

// AdminAnalyze runs the analysis on any résumé without ownership or plan checks.
func (s *ResumeService) AdminAnalyze(ctx context.Context, resumeID uint) (string, error) {
	r, err := s.Store.GetResume(ctx, resumeID)
	if err != nil {
		return "", err
	}
	return s.analyze(ctx, r)
}

func (s *ResumeService) analyze(ctx context.Context, r *models.Resume) (string, error) {
	if !hasExtractedText(r) {
		return "", apperrors.ErrMissingOriginalText
	}
	if err := s.Store.UpdateResume(ctx, r.ID, map[string]interface{}{"status": models.ResumeAnalyzing}); err != nil {
		return "", err
	}

	analysis, err := s.invoke(ctx, advisor.AnalysisMessages(r.OriginalContent))
	if err == nil {
		err = s.Store.UpdateResume(ctx, r.ID, map[string]interface{}{
			"analyzed_content": analysis,
			"status":           models.ResumeAnalyzed,
		})
	}
	if err != nil {
		s.rollback(ctx, r)
		return "", err
	}

	logger.LogSuccessWithUser(r.UserID, fmt.Sprintf("resume %d analyzed", r.ID))
	return analysis, nil
}

func (s *ResumeService) rollback(ctx context.Context, r *models.Resume) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.Store.UpdateResume(ctx, r.ID, map[string]interface{}{"status": models.ResumeUploaded}); err != nil {
		logger.LogErrorWithUser(r.UserID, err, fmt.Sprintf("failed to roll back resume %d to uploaded", r.ID))
	}
}

// ApplyImprovements merges the stored analysis into the original text.
func (s *ResumeService) ApplyImprovements(ctx context.Context, resumeID, requesterID uint) (string, error) {
	r, err := s.ownedResume(ctx, resumeID, requesterID)
	if err != nil {
		return "", err
	}
	if err := requireAIPlan(ctx, s.Store, requesterID); err != nil {
		return "", err
	}
	if strings.TrimSpace(r.AnalyzedContent) == "" {
		return "", apperrors.ErrNotAnalyzed
	}
	if !hasExtractedText(r) {
		return "", apperrors.ErrMissingOriginalText
	}

	improved, err := s.invoke(ctx, advisor.ImprovementMessages(r.OriginalContent, r.AnalyzedContent))
	if err != nil {
		return "", err
	}
	err = s.Store.UpdateResume(ctx, r.ID, map[string]interface{}{
		"improved_content": improved,
		"status":           models.ResumeImproved,
	})
	if err != nil {
		return "", err
	}
	logger.LogSuccessWithUser(requesterID, fmt.Sprintf("resume %d improved", r.ID))
	return improved, nil
}

func (s *ResumeService) invoke(ctx context.Context, msgs []advisor.Message) (string, error) {
	text, err := s.Advisor.Invoke(ctx, msgs)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAdvisoryResponse) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinAdvisoryLength {
		return "", apperrors.ErrEmptyAnalysis
	}
	return text, nil
}

func (s *ResumeService) ownedResume(ctx context.Context, resumeID, userID uint) (*models.Resume, error) {
	r, err := s.Store.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, fmt.Errorf("resume %d: %w", resumeID, apperrors.ErrNotFound)
	}
	return r, nil
}

func hasExtractedText(r *models.Resume) bool {
	text := strings.TrimSpace(r.OriginalContent)
	return text != "" && !strings.HasPrefix(text, extractionFailedPrefix)
}

// requireAIPlan fails with ErrPlanRestricted unless the user's plan includes AI analysis.
func requireAIPlan(ctx context.Context, st UserReader, userID uint) error {
	_, plan, err := userPlan(ctx, st, userID)
	if err != nil {
		return err
	}
	if plan == nil || !plan.HasAIAnalysis {
		return apperrors.ErrPlanRestricted
	}
	return nil
}

// userPlan loads the user and, when one is assigned, the plan.
func userPlan(ctx context.Context, st UserReader, userID uint) (*models.User, *models.SubscriptionPlan, error) {
	user, err := st.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.SubscriptionPlanID == nil {
		return user, nil, nil
	}
	plan, err := st.GetPlan(ctx, *user.SubscriptionPlanID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return user, plan, nil
}

type DuplicateGroup struct {
	FileName   string          `json:"file_name"`
	Keep       models.Resume   `json:"keep"`
	Duplicates []models.Resume `json:"duplicates"`
}

type DeletedGroup struct {
	FileName   string `json:"file_name"`
	KeptID     uint   `json:"kept_id"`
	RemovedIDs []uint `json:"removed_ids"`
}

type DeleteDuplicatesResult struct {
	DeletedCount int64          `json:"deleted_count"`
	Groups       []DeletedGroup `json:"groups"`
}

// FindDuplicates groups the user's résumés by case-folded, trimmed file name.
// In each group of two or more, the newest (ties: higher id) is kept.
func (s *ResumeService) FindDuplicates(ctx context.Context, userID uint) ([]DuplicateGroup, error) {
	resumes, err := s.Store.ListResumesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return groupDuplicates(resumes), nil
}

func (s *ResumeService) DeleteDuplicates(ctx context.Context, userID uint) (*DeleteDuplicatesResult, error) {
	groups, err := s.FindDuplicates(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &DeleteDuplicatesResult{Groups: make([]DeletedGroup, 0, len(groups))}
	var ids []uint
	for _, g := range groups {
		dg := DeletedGroup{FileName: g.FileName, KeptID: g.Keep.ID}
		for _, d := range g.Duplicates {
			dg.RemovedIDs = append(dg.RemovedIDs, d.ID)
		}
		ids = append(ids, dg.RemovedIDs...)
		res.Groups = append(res.Groups, dg)
	}

	n, err := s.Store.DeleteResumes(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	res.DeletedCount = n
	if n > 0 {
		logger.LogSuccessWithUser(userID, fmt.Sprintf("deleted %d duplicate resumes", n))
	}
	return res, nil
}

func groupDuplicates(resumes []models.Resume) []DuplicateGroup {
	fold := cases.Fold()
	byKey := make(map[string][]models.Resume)
	for _, r := range resumes {
		key := fold.String(strings.TrimSpace(r.FileName))
		byKey[key] = append(byKey[key], r)
	}

	groups := make([]DuplicateGroup, 0)
	for key, members := range byKey {
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
				return members[i].CreatedAt.After(members[j].CreatedAt)
			}
			return members[i].ID > members[j].ID
		})
		groups = append(groups, DuplicateGroup{
			FileName:   key,
			Keep:       members[0],
			Duplicates: members[1:],
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].FileName < groups[j].FileName })
	return groups
}

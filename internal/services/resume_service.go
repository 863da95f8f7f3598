package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/services/dto"
	"jobh_backend/internal/storage"
	"jobh_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// ResumeService - резюме кандидата: одно на пользователя, CV только в PDF
type ResumeService interface {
	Create(ctx context.Context, p auth.Principal, req *dto.CreateResumeRequest) (*models.Resume, error)
	GetMine(ctx context.Context, p auth.Principal) (*models.Resume, error)
	UpdateMine(ctx context.Context, p auth.Principal, req *dto.UpdateResumeRequest) (*models.Resume, error)
	UpdateCV(ctx context.Context, p auth.Principal, file *dto.FileUpload) (*models.Resume, error)

	ListAdmin(ctx context.Context, p auth.Principal, q *dto.PageQuery) (dto.PageResponse[models.Resume], error)
}

type ResumeServiceImpl struct {
	tx      repositories.Transactor
	resumes repositories.ResumeRepository
	storage storage.Storage
}

func NewResumeService(tx repositories.Transactor, resumes repositories.ResumeRepository, store storage.Storage) ResumeService {
	return &ResumeServiceImpl{
		tx:      tx,
		resumes: resumes,
		storage: store,
	}
}

func (s *ResumeServiceImpl) Create(ctx context.Context, p auth.Principal, req *dto.CreateResumeRequest) (*models.Resume, error) {
	if !auth.CanTransition(p, "", auth.ActionResumeManage) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	_, err := s.resumes.FindByOwner(ctx, p.ID)
	if err == nil {
		return nil, apperrors.ErrResumeAlreadyExists
	}
	if !errors.Is(err, repositories.ErrResumeNotFound) {
		return nil, handleRepoError(err)
	}

	resume := &models.Resume{
		OwnerID:  p.ID,
		FullName: strings.TrimSpace(req.FullName),
		Title:    strings.TrimSpace(req.Title),
		About:    req.About,
		City:     req.City,
		Phone:    req.Phone,
		Skills:   normalizeSkills(req.Skills),
		IsActive: true,
	}
	// гонку двух Create закрывает ux_resumes_owner_alive
	if err := s.resumes.Create(ctx, resume); err != nil {
		return nil, handleRepoError(err)
	}

	logger.CtxInfo(ctx, "resume created", "resume_id", resume.ID, "owner_id", p.ID)
	return resume, nil
}

func (s *ResumeServiceImpl) GetMine(ctx context.Context, p auth.Principal) (*models.Resume, error) {
	if !auth.CanTransition(p, "", auth.ActionResumeManage) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	resume, err := s.resumes.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return resume, nil
}

func (s *ResumeServiceImpl) UpdateMine(ctx context.Context, p auth.Principal, req *dto.UpdateResumeRequest) (resume *models.Resume, err error) {
	if !auth.CanTransition(p, "", auth.ActionResumeManage) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		resume, err = s.resumes.FindByOwnerForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		applyResumeUpdate(resume, req)
		return s.resumes.Save(ctx, resume)
	})
	if err != nil {
		return nil, handleRepoError(err)
	}
	return resume, nil
}

func applyResumeUpdate(r *models.Resume, req *dto.UpdateResumeRequest) {
	if req.FullName != nil {
		r.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.About != nil {
		r.About = req.About
	}
	if req.City != nil {
		r.City = req.City
	}
	if req.Phone != nil {
		r.Phone = req.Phone
	}
	if req.Skills != nil {
		r.Skills = normalizeSkills(req.Skills)
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
}

// normalizeSkills убирает пустые и повторяющиеся навыки, порядок сохраняется
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// UpdateCV заменяет файл резюме; прежний файл удаляется после коммита
func (s *ResumeServiceImpl) UpdateCV(ctx context.Context, p auth.Principal, file *dto.FileUpload) (resume *models.Resume, err error) {
	if !auth.CanTransition(p, "", auth.ActionResumeManage) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	current, err := s.resumes.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	key := fmt.Sprintf("cvs/%s/%s.pdf", current.ID, uuid.NewString())
	if err := s.storage.Save(ctx, key, bytes.NewReader(file.Data), file.ContentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to store cv: %w", err))
	}

	var previous *string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		resume, err = s.resumes.FindByOwnerForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		previous = resume.CVFile
		resume.CVFile = strPtr(key)
		return s.resumes.Save(ctx, resume)
	})
	if err != nil {
		s.removeFile(ctx, key)
		return nil, handleRepoError(err)
	}

	if previous != nil && *previous != "" {
		s.removeFile(ctx, *previous)
	}
	logger.CtxInfo(ctx, "resume cv replaced", "resume_id", resume.ID, "key", key)
	return resume, nil
}

func (s *ResumeServiceImpl) removeFile(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "failed to remove stored file", "key", key, "error", err)
	}
}

// ListAdmin - все резюме, новые первыми
func (s *ResumeServiceImpl) ListAdmin(ctx context.Context, p auth.Principal, q *dto.PageQuery) (dto.PageResponse[models.Resume], error) {
	if !auth.CanTransition(p, "", auth.ActionAdminView) {
		return dto.PageResponse[models.Resume]{}, apperrors.ErrInsufficientPermissions
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.resumes.ListAdmin(ctx, page)
	if err != nil {
		return dto.PageResponse[models.Resume]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}

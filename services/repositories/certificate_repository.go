package repositories

import (
	"context"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
)

type CertificateRepository struct {
	BaseRepository
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts the certificate. The unique (user, course) index rejects duplicates.
func (r *CertificateRepository) Create(ctx context.Context, cert *model.Certificate) error {
	if cert.ID == "" {
		cert.ID = NewID()
	}
	return r.conn(ctx).Create(cert).Error
}

func (r *CertificateRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.conn(ctx).
		Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) GetByID(ctx context.Context, id string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := r.conn(ctx).Preload("Course").Where("id = ?", id).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) GetByNumber(ctx context.Context, number string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.conn(ctx).
		Preload("Course").
		Where("certificate_number = ?", number).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.conn(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issue_date DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) CountByUserAndCourse(ctx context.Context, userID, courseID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}

func (r *CertificateRepository) SetDocumentKey(ctx context.Context, id, key string) error {
	return r.conn(ctx).Model(&model.Certificate{}).Where("id = ?", id).Update("document_key", key).Error
}

package implementation

import (
	"context"
	"errors"

	"image-processing-be/internal/entity"
	"image-processing-be/internal/mapper"
	"image-processing-be/internal/model"
	"image-processing-be/internal/repository/contract"
	"image-processing-be/internal/repository/scope"
	"image-processing-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProcessedImageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcessedImageMapper
}

func NewProcessedImageRepository(db *gorm.DB) contract.ProcessedImageRepository {
	return &ProcessedImageRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcessedImageMapper(),
	}
}

func (r *ProcessedImageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProcessedImageRepositoryImpl) Create(ctx context.Context, image *entity.ProcessedImage) error {
	m := r.mapper.ToModel(image)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*image = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessedImageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessedImage, error) {
	var row model.ProcessedImage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&row), nil
}

func (r *ProcessedImageRepositoryImpl) FindNewestFirst(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessedImage, error) {
	var rows []*model.ProcessedImage
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.NewestFirst), specs...)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(rows), nil
}

func (r *ProcessedImageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ProcessedImage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProcessedImageRepositoryImpl) CountByFilter(ctx context.Context) ([]entity.FilterCount, error) {
	var rows []struct {
		FilterType string
		Total      int64
	}

	err := r.db.WithContext(ctx).Model(&model.ProcessedImage{}).
		Select("filter_type, COUNT(*) AS total").
		Group("filter_type").
		Order("total DESC").
		Order("filter_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]entity.FilterCount, len(rows))
	for i, row := range rows {
		counts[i] = entity.FilterCount{FilterKind: row.FilterType, Total: row.Total}
	}
	return counts, nil
}

func (r *ProcessedImageRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.ProcessedImage{})
	return res.RowsAffected, res.Error
}

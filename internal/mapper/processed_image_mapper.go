package mapper

import (
	"image-processing-be/internal/entity"
	"image-processing-be/internal/model"
)

type ProcessedImageMapper struct{}

func NewProcessedImageMapper() *ProcessedImageMapper {
	return &ProcessedImageMapper{}
}

func (m *ProcessedImageMapper) ToEntity(p *model.ProcessedImage) *entity.ProcessedImage {
	if p == nil {
		return nil
	}
	return &entity.ProcessedImage{
		Id:                p.Id,
		UserId:            p.UserId,
		UserName:          p.UserName,
		OriginalFilename:  p.OriginalFilename,
		ProcessedFilename: p.ProcessedFilename,
		FilterKind:        p.FilterKind,
		CreatedAt:         p.CreatedAt,
	}
}

func (m *ProcessedImageMapper) ToModel(p *entity.ProcessedImage) *model.ProcessedImage {
	if p == nil {
		return nil
	}
	return &model.ProcessedImage{
		Id:                p.Id,
		UserId:            p.UserId,
		UserName:          p.UserName,
		OriginalFilename:  p.OriginalFilename,
		ProcessedFilename: p.ProcessedFilename,
		FilterKind:        p.FilterKind,
		CreatedAt:         p.CreatedAt,
	}
}

func (m *ProcessedImageMapper) ToEntities(rows []*model.ProcessedImage) []*entity.ProcessedImage {
	entities := make([]*entity.ProcessedImage, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

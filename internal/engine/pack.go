package engine

import (
	"fmt"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// PackAtlas packs raw pixel buffers into one atlas using the default
// settings.
func PackAtlas(images []model.RawImage) (model.AtlasResult, error) {
	return New(model.DefaultSettings()).Pack(images)
}

// Pack converts raw buffers into source images and packs them.
func (o *Optimizer) Pack(images []model.RawImage) (model.AtlasResult, error) {
	if len(images) == 0 {
		return model.AtlasResult{}, model.ErrEmptyInput
	}
	sources := make([]*model.SourceImage, len(images))
	for i, raw := range images {
		src, err := model.SourceFromRaw(i, raw)
		if err != nil {
			return model.AtlasResult{}, err
		}
		sources[i] = src
	}
	return o.PackSources(sources)
}

// PackSources runs the scale search over sources and assembles the atlas of
// the winning candidate. Sources are indexed by position.
func (o *Optimizer) PackSources(sources []*model.SourceImage) (model.AtlasResult, error) {
	if len(sources) == 0 {
		return model.AtlasResult{}, model.ErrEmptyInput
	}

	indexed := make([]*model.SourceImage, len(sources))
	for i, src := range sources {
		if src == nil || src.Degenerate() {
			de := &model.DegenerateImageError{Index: i}
			if src != nil {
				de.Name, de.Width, de.Height = src.Name, src.Width(), src.Height()
			}
			return model.AtlasResult{}, de
		}
		if src.Index != i {
			src = model.NewSourceImage(i, src.Name, src.Image)
		}
		indexed[i] = src
	}

	res, err := o.Search(indexed)
	if err != nil {
		return model.AtlasResult{Candidates: res.Candidates}, err
	}

	atlas, err := Assemble(res.Pack, indexed)
	if err != nil {
		return model.AtlasResult{Candidates: res.Candidates}, fmt.Errorf("assembling atlas: %w", err)
	}

	return model.AtlasResult{
		Image:       atlas,
		Width:       res.Best.Width,
		Height:      res.Best.Height,
		Waste:       TransparentFraction(atlas),
		SourceWaste: SourceWaste(sourceImages(indexed)),
		ScaleX:      res.Best.ScaleX,
		ScaleY:      res.Best.ScaleY,
		Placements:  res.Pack.Placements,
		Candidates:  res.Candidates,
	}, nil
}

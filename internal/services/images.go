package services

import (
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// NormalizeImages flattens every raw image shape into descriptors. Empty
// entries are dropped; unrecognized shapes are passed through in Raw.
func NormalizeImages(raw dtos.RawImages) []gormModels.ImageDescriptor {
	images := make([]gormModels.ImageDescriptor, 0, len(raw))
	for _, img := range raw {
		desc, ok := imageDescriptor(img)
		if ok {
			images = append(images, desc)
		}
	}
	return images
}

func imageDescriptor(img dtos.RawImage) (gormModels.ImageDescriptor, bool) {
	desc := gormModels.ImageDescriptor{
		Sequence: img.Sequence,
		Category: img.Category,
	}

	switch img.Kind {
	case dtos.RawImageString, dtos.RawImageURL, dtos.RawImageHref, dtos.RawImageSrc:
		desc.LargeURL = img.URL
		desc.SmallURL = img.URL
	case dtos.RawImageSized:
		desc.LargeURL = img.LargeURL
		desc.SmallURL = img.SmallURL
		if desc.LargeURL == "" {
			desc.LargeURL = img.SmallURL
		}
		if desc.SmallURL == "" {
			desc.SmallURL = img.LargeURL
		}
	default:
		if img.Raw == nil {
			return desc, false
		}
		desc.Raw = img.Raw
	}
	return desc, true
}

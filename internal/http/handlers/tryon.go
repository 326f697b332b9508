package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/HenrikWarf/creative-studio/internal/providers/tryon"
)

// TryOnGenerate fits uploaded garments onto a person image. The result lands
// in the bucket and comes back as a signed URL; saving it to a project is a
// separate explicit call.
func (a *App) TryOnGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	personData, personMime, err := formFile(r, "person_image")
	if err != nil || personData == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "person_image required")
		return
	}
	clothing, err := formFiles(r, "clothing_images")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid clothing upload")
		return
	}
	if len(clothing) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "at least one clothing image required")
		return
	}

	garments := make([]tryon.Input, 0, len(clothing))
	for _, g := range clothing {
		garments = append(garments, tryon.Input{Data: g.Data, MimeType: g.MimeType})
	}
	result, err := a.TryOn.TryOn(r.Context(), tryon.Input{Data: personData, MimeType: personMime}, garments)
	if err != nil {
		a.fail(w, err)
		return
	}

	key := "tryon_results/" + uuid.NewString() + ".png"
	landed, err := a.Mat.FromBytes(r.Context(), result, key, "image/png")
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"blob_name": landed,
		"image_url": a.Store.SignedURL(landed),
	})
}

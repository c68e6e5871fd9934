package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/savings/internal/category"
	"github.com/frahmantamala/savings/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category Handler", func() {
	var handler *category.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = category.NewHandler(&transport.BaseHandler{Logger: slogger})
	})

	It("should handle GET /categories request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(6))

		keys := make([]string, len(response.Categories))
		for i, cat := range response.Categories {
			keys[i] = cat.Key
			Expect(cat.Icon).NotTo(BeEmpty())
			Expect(cat.Hex).To(HavePrefix("#"))
		}
		Expect(keys).To(Equal([]string{"food", "dailyLife", "house", "bank", "vacation", "hobby"}))
	})
})

package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/filter"
	"github.com/utafrali/storefront/internal/render"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/validator"
)

// StorefrontHandler serves the storefront pages, fragments and actions.
type StorefrontHandler struct {
	service    *service.StorefrontService
	catalog    *catalog.Catalog
	renderer   *render.Renderer
	logger     *slog.Logger
	defaultMax domain.Money
	perPage    int
}

// NewStorefrontHandler creates the storefront HTTP handler.
func NewStorefrontHandler(
	svc *service.StorefrontService,
	cat *catalog.Catalog,
	renderer *render.Renderer,
	logger *slog.Logger,
	defaultMax domain.Money,
	perPage int,
) *StorefrontHandler {
	return &StorefrontHandler{
		service:    svc,
		catalog:    cat,
		renderer:   renderer,
		logger:     logger,
		defaultMax: defaultMax,
		perPage:    perPage,
	}
}

// stateResponse is the body of GET /api/v1/state.
type stateResponse struct {
	domain.Snapshot
	Warnings []string `json:"warnings,omitempty"`
}

// --- Pages ---

// Home handles GET /
func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadState(w, r)
	if !ok {
		return
	}

	criteria, err := filter.ParseCriteria(r.URL.Query(), h.catalog, h.defaultMax)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := h.pageData(r, "Shop", snap)
	data.Filter = render.FilterView{
		Search:    criteria.Search,
		Category:  criteria.Category,
		MaxPrice:  criteria.MaxPrice.Decimal().IntPart(),
		SliderMax: h.defaultMax.Decimal().IntPart(),
	}
	data.Categories = render.CategoryBar(h.catalog.Categories(), criteria.Category, filter.Values(criteria, h.defaultMax))
	data.Grid = h.grid(r, criteria, snap.Wishlist)

	h.page(w, r, http.StatusOK, render.PageHome, data)
}

// Product handles GET /product?id=N
func (h *StorefrontHandler) Product(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadState(w, r)
	if !ok {
		return
	}

	detail, status := h.detail(r, snap.Wishlist)
	title := detail.Product.Name
	if !detail.Found {
		title = "Not found"
	}
	data := h.pageData(r, title, snap)
	data.Detail = detail

	h.page(w, r, status, render.PageProduct, data)
}

// Cart handles GET /cart
func (h *StorefrontHandler) Cart(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadState(w, r)
	if !ok {
		return
	}

	data := h.pageData(r, "Bag", snap)
	data.Cart = render.CartTable(snap.Cart)
	data.Cart.ReturnTo = "/cart"

	h.page(w, r, http.StatusOK, render.PageCart, data)
}

// Checkout handles GET /checkout. An empty bag redirects to the listing.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadState(w, r)
	if !ok {
		return
	}

	summary, outcome := render.CheckoutSummary(snap.Cart)
	if outcome.IsRedirect() {
		http.Redirect(w, r, outcome.Redirect, http.StatusSeeOther)
		return
	}

	data := h.pageData(r, "Checkout", snap)
	data.Checkout = summary

	h.page(w, r, http.StatusOK, render.PageCheckout, data)
}

// Fragment handles GET /fragments/{target}
func (h *StorefrontHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	target, ok := render.ParseTarget(chi.URLParam(r, "target"))
	if !ok {
		h.writeError(w, r, apperrors.NotFound("fragment", chi.URLParam(r, "target")))
		return
	}

	snap, ok := h.loadState(w, r)
	if !ok {
		return
	}

	status := http.StatusOK
	var data any

	switch target {
	case render.TargetProductList:
		criteria, err := filter.ParseCriteria(r.URL.Query(), h.catalog, h.defaultMax)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		data = h.grid(r, criteria, snap.Wishlist)
	case render.TargetProductDetails:
		data, status = h.detail(r, snap.Wishlist)
	case render.TargetCartTable:
		view := render.CartTable(snap.Cart)
		view.ReturnTo = "/cart"
		data = view
	case render.TargetCheckoutItems:
		summary, outcome := render.CheckoutSummary(snap.Cart)
		if outcome.IsRedirect() {
			http.Redirect(w, r, outcome.Redirect, http.StatusSeeOther)
			return
		}
		data = summary
	case render.TargetCategoryBar:
		criteria, err := filter.ParseCriteria(r.URL.Query(), h.catalog, h.defaultMax)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		data = render.CategoryBar(h.catalog.Categories(), criteria.Category, filter.Values(criteria, h.defaultMax))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, target, data); err != nil {
		logger.FromContext(r.Context()).Error("render fragment failed",
			slog.String("target", string(target)),
			slog.String("error", err.Error()),
		)
	}
}

// State handles GET /api/v1/state
func (h *StorefrontHandler) State(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.State(r.Context(), sessionID(r))
	resp := stateResponse{Snapshot: snap}
	if err != nil {
		if !errors.Is(err, apperrors.ErrMalformedState) {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		resp.Warnings = append(resp.Warnings, err.Error())
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// --- Actions ---

// AddToCart handles POST /cart/items
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, err := httputil.IntParam("product_id", r.FormValue("product_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.service.AddToCart(r.Context(), sessionID(r), productID)
	h.afterMutation(w, r, snap, err, "/")
}

// ChangeQuantity handles POST /cart/lines/{index}/quantity
func (h *StorefrontHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	index, err := httputil.IntParam("index", chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	delta, err := httputil.IntParam("delta", r.FormValue("delta"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.service.ChangeQuantity(r.Context(), sessionID(r), index, delta)
	h.afterMutation(w, r, snap, err, "/cart")
}

// RemoveLine handles POST /cart/lines/{index}/remove
func (h *StorefrontHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	index, err := httputil.IntParam("index", chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.service.RemoveLine(r.Context(), sessionID(r), index)
	h.afterMutation(w, r, snap, err, "/cart")
}

// ClearCart handles POST /cart/clear
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ClearCart(r.Context(), sessionID(r))
	h.afterMutation(w, r, snap, err, "/cart")
}

// ToggleWishlist handles POST /wishlist/{productID}/toggle
func (h *StorefrontHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID, err := httputil.IntParam("productID", chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.service.ToggleWishlist(r.Context(), sessionID(r), productID)
	h.afterMutation(w, r, snap, err, "/")
}

// --- Helpers ---

// afterMutation answers JSON callers with the new state and redirects
// browsers back to the page they came from.
func (h *StorefrontHandler) afterMutation(w http.ResponseWriter, r *http.Request, snap domain.Snapshot, err error, fallback string) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if httputil.WantsJSON(r) {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
		return
	}
	http.Redirect(w, r, safeReturnTo(r.FormValue("return_to"), fallback), http.StatusSeeOther)
}

// loadState fetches the session state. A malformed snapshot is logged and
// the empty fallback is used; any other failure is answered here.
func (h *StorefrontHandler) loadState(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	snap, err := h.service.State(r.Context(), sessionID(r))
	if err != nil {
		if errors.Is(err, apperrors.ErrMalformedState) {
			logger.FromContext(r.Context()).Warn("rendering with reset state", slog.String("error", err.Error()))
			return snap, true
		}
		h.writeError(w, r, err)
		return domain.Snapshot{}, false
	}
	return snap, true
}

func (h *StorefrontHandler) grid(r *http.Request, criteria domain.FilterCriteria, wishlist domain.Wishlist) render.GridView {
	matches := filter.Catalog(h.catalog.Products(), criteria)
	params := pagination.FromQuery(r.URL.Query(), h.perPage)
	page := pagination.Paginate(matches, params)

	grid := render.ProductGrid(page.Data, wishlist)
	grid.ReturnTo = r.URL.RequestURI()
	grid.Pager = render.Pager{Page: page.Page, TotalPages: page.TotalPages}
	if page.HasPrev {
		grid.Pager.PrevURL = h.pageURL(criteria, params.PerPage, page.Page-1)
	}
	if page.HasNext {
		grid.Pager.NextURL = h.pageURL(criteria, params.PerPage, page.Page+1)
	}
	return grid
}

// pageURL links to another listing page under the same criteria.
func (h *StorefrontHandler) pageURL(criteria domain.FilterCriteria, perPage, page int) string {
	q := filter.Values(criteria, h.defaultMax)
	q.Set("page", strconv.Itoa(page))
	if perPage != h.perPage {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return "/?" + q.Encode()
}

// detail resolves the id query parameter. Anything other than a known
// integer id yields the not-found view and 404.
func (h *StorefrontHandler) detail(r *http.Request, wishlist domain.Wishlist) (render.DetailView, int) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		return render.DetailNotFound(), http.StatusNotFound
	}
	p, err := h.catalog.Lookup(id)
	if err != nil {
		return render.DetailNotFound(), http.StatusNotFound
	}

	view := render.ProductDetail(p, h.catalog.Siblings(p), wishlist)
	view.ReturnTo = r.URL.RequestURI()
	return view, http.StatusOK
}

func (h *StorefrontHandler) pageData(r *http.Request, title string, snap domain.Snapshot) render.PageData {
	return render.PageData{
		Title:    title,
		Counters: snap.Counters,
		Notices:  h.service.Notices(sessionID(r)),
	}
}

func (h *StorefrontHandler) page(w http.ResponseWriter, r *http.Request, status int, page render.Page, data render.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Page(w, page, data); err != nil {
		logger.FromContext(r.Context()).Error("render page failed",
			slog.String("page", string(page)),
			slog.String("error", err.Error()),
		)
	}
}

// writeError answers JSON callers with the error envelope and browsers with
// the error page.
func (h *StorefrontHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.WantsJSON(r) {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := apperrors.HTTPStatus(err)
	message := http.StatusText(status)

	var valErr *validator.ValidationError
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		message = valErr.Error()
	case errors.As(err, &appErr) && status < http.StatusInternalServerError:
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	h.renderError(w, r, status, message)
}

func (h *StorefrontHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.page(w, r, status, render.PageError, render.PageData{
		Title: http.StatusText(status),
		Error: render.ErrorView{Status: status, Message: message},
	})
}

// NotFound renders the error page for unknown routes.
func (h *StorefrontHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, apperrors.NotFound("page", r.URL.Path))
}

// Panic renders the error page after a recovered panic.
func (h *StorefrontHandler) Panic(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
}

// RateLimited answers a rejected mutation.
func (h *StorefrontHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, apperrors.RateLimited("too many changes, please slow down"))
}

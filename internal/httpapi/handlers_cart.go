package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/apperr"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

type cartView struct {
	Items []cartdomain.CartItem `json:"items"`
	Total decimal.Decimal       `json:"total"`
}

func (a *API) cartView(items []cartdomain.CartItem) cartView {
	if items == nil {
		items = []cartdomain.CartItem{}
	}
	return cartView{Items: items, Total: a.Cart.CalculateTotal(items)}
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	items, err := a.Cart.GetCartItems(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, a.cartView(items))
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (a *API) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	items, err := a.Cart.AddToCart(r.Context(), chi.URLParam(r, "userID"), req.ProductID, req.Quantity)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	created(w, "item added to cart", a.cartView(items))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (a *API) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	items, err := a.Cart.UpdateQuantity(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, a.cartView(items))
}

func (a *API) removeFromCart(w http.ResponseWriter, r *http.Request) {
	items, err := a.Cart.RemoveFromCart(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "productID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, a.cartView(items))
}

func (a *API) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := a.Cart.ClearCart(r.Context(), chi.URLParam(r, "userID")); err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, a.cartView(nil))
}

func parseDiscount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Invalid("discount", "must be a decimal number")
	}
	return d, nil
}

func (a *API) quote(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := uuid.Parse(userID); err != nil {
		a.fail(w, r, apperr.Invalid("user_id", "must be a uuid"))
		return
	}
	discount, err := parseDiscount(r.URL.Query().Get("discount"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	q, err := a.Checkout.Quote(r.Context(), userID, discount)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, q)
}

type placeOrderRequest struct {
	PaymentMethod orderdomain.PaymentMethod `json:"payment_method"`
	Discount      decimal.Decimal           `json:"discount"`
}

func (a *API) placeOrder(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := uuid.Parse(userID); err != nil {
		a.fail(w, r, apperr.Invalid("user_id", "must be a uuid"))
		return
	}

	var req placeOrderRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	order, err := a.Checkout.PlaceOrder(r.Context(), userID, req.PaymentMethod, req.Discount)
	if err != nil {
		if order.ID == "" {
			a.fail(w, r, err)
			return
		}
		// the order is stored even though the cart could not be emptied
		a.log.Warn("order placed with cart left intact", slog.String("order_id", order.ID), slog.Any("err", err))
	}
	created(w, "order placed", order)
}

func (a *API) orderHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := a.Orders.History(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if orders == nil {
		orders = []orderdomain.Order{}
	}
	ok(w, orders)
}

func (a *API) websocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := uuid.Parse(userID); err != nil {
		a.fail(w, r, apperr.Invalid("user_id", "must be a uuid"))
		return
	}
	a.Hub.ServeWS(w, r, userID)
}

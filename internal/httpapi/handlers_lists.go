package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	listdomain "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
)

func (a *API) getLists(w http.ResponseWriter, r *http.Request) {
	var status listdomain.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := listdomain.ParseStatus(raw)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		status = st
	}

	lists, err := a.Lists.GetLists(r.Context(), chi.URLParam(r, "userID"), status)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if lists == nil {
		lists = []listdomain.List{}
	}
	ok(w, lists)
}

type createListRequest struct {
	Name string `json:"name"`
}

func (a *API) createList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	list, err := a.Lists.CreateList(r.Context(), chi.URLParam(r, "userID"), req.Name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	created(w, "list created", list)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (a *API) updateListStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	to, err := listdomain.ParseStatus(req.Status)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	list, err := a.Lists.UpdateListStatus(r.Context(), chi.URLParam(r, "listID"), to)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, list)
}

func (a *API) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := a.Lists.DeleteList(r.Context(), chi.URLParam(r, "listID")); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "list deleted"})
}

type listItemsView struct {
	Items []listdomain.Item `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (a *API) getListItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.Lists.GetListItems(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []listdomain.Item{}
	}
	ok(w, listItemsView{Items: items, Total: a.Lists.CalculateTotal(items)})
}

type addListItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (a *API) addListItem(w http.ResponseWriter, r *http.Request) {
	var req addListItemRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.Lists.AddItemToList(r.Context(), chi.URLParam(r, "listID"), req.ProductID, req.Quantity); err != nil {
		a.fail(w, r, err)
		return
	}
	created(w, "item added to list", nil)
}

type scanRequest struct {
	Code string `json:"code"`
}

func (a *API) scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	p, err := a.Scanner.Scan(r.Context(), chi.URLParam(r, "listID"), req.Code)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	created(w, "item added to list", p)
}

func (a *API) updateListItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.Lists.UpdateItemQuantity(r.Context(), chi.URLParam(r, "itemID"), req.Quantity); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "item updated"})
}

func (a *API) removeListItem(w http.ResponseWriter, r *http.Request) {
	if err := a.Lists.RemoveItemFromList(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "item removed"})
}

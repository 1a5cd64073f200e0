package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type CartHandler struct {
	cartSvc CartServiceInterface
}

func NewCartHandler(cartSvc CartServiceInterface) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.CartResponse}
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.cartSvc.GetCart(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Add course to cart
// @Tags cart
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.AddCartItemRequest true "Course"
// @Success 200 {object} shared.Response{data=dto.CartResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req dto.AddCartItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.cartSvc.AddItem(c.UserContext(), identity.UserID, req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Remove cart item
// @Tags cart
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param itemId path string true "Cart item ID"
// @Success 200 {object} shared.Response{data=dto.CartResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.cartSvc.RemoveItem(c.UserContext(), identity.UserID, c.Params("itemId"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Checkout cart
// @Description Enroll in every course in the cart and empty it
// @Tags cart
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.CheckoutResponse}
// @Failure 400 {object} shared.Response
// @Router /api/v1/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.cartSvc.Checkout(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Checkout complete", res)
}

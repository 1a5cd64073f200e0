package services

import (
	"context"
	"math"
	"strings"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
	"gorm.io/gorm"
)

const CART_SVC = "cart_svc"

type CartService struct {
	appContext.DefaultService

	db      Database
	carts   *repositories.CartRepository
	courses *repositories.CourseRepository
}

func (svc CartService) Id() string {
	return CART_SVC
}

func (svc *CartService) Start() error {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.carts = repositories.NewCartRepository(svc.db.Db())
	svc.courses = repositories.NewCourseRepository(svc.db.Db())
	return nil
}

func (svc *CartService) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	cart, err := svc.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return toCartResponse(cart), nil
}

func (svc *CartService) AddItem(ctx context.Context, userID string, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	exists, err := svc.courses.CourseExists(ctx, req.CourseID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if !exists {
		return nil, shared.NewNotFoundError(nil, "Course not found")
	}

	cart, err := svc.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if _, err := svc.carts.AddItem(ctx, cart.ID, req.CourseID); err != nil {
		return nil, svc.db.HandleError(err)
	}

	cart, err = svc.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return toCartResponse(cart), nil
}

func (svc *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*dto.CartResponse, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, shared.NewBadRequestError(nil, "Item ID is required")
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	cart, err := svc.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	removed, err := svc.carts.RemoveItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if !removed {
		return nil, shared.NewNotFoundError(nil, "Cart item not found")
	}

	cart, err = svc.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return toCartResponse(cart), nil
}

// Checkout enrolls the learner in every course in the cart and empties it in one transaction.
func (svc *CartService) Checkout(ctx context.Context, userID string) (*dto.CheckoutResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	res := &dto.CheckoutResponse{Enrollments: []dto.EnrollmentResponse{}}

	err := svc.db.Db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repositories.NewCartRepository(tx)
		courses := repositories.NewCourseRepository(tx)
		enrollments := repositories.NewEnrollmentRepository(tx)

		cart, err := carts.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return shared.NewBadRequestError(nil, "Cart is empty")
		}

		for _, item := range cart.Items {
			enrollment, _, err := enroll(ctx, svc.db, courses, enrollments, userID, item.CourseID)
			if err != nil {
				return err
			}
			res.Enrollments = append(res.Enrollments, *enrollment)
		}
		return carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		if _, ok := shared.GetAppError(err); ok {
			return nil, err
		}
		return nil, svc.db.HandleError(err)
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"enrollments": len(res.Enrollments),
	}).Info("Cart checked out")
	return res, nil
}

func toCartResponse(cart *model.Cart) *dto.CartResponse {
	res := &dto.CartResponse{
		ID:    cart.ID,
		Items: make([]dto.CartItemResponse, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		entry := dto.CartItemResponse{ID: item.ID}
		if item.Course != nil {
			course := toCourseResponse(item.Course)
			entry.Course = &course
			res.Total += item.Course.Price
		}
		res.Items = append(res.Items, entry)
	}
	res.Total = math.Round(res.Total*100) / 100
	return res
}

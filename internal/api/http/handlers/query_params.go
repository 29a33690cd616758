package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-dashboard/internal/api/dto"
	"github.com/spec-kit/fleet-dashboard/internal/query"
	"github.com/spec-kit/fleet-dashboard/internal/repository"
	apperrors "github.com/spec-kit/fleet-dashboard/pkg/util"
)

func parseSort(c *fiber.Ctx) (query.SortState, error) {
	field := strings.TrimSpace(c.Query("sort"))
	dir, err := query.ParseDirection(c.Query("order"))
	if err != nil {
		return query.SortState{}, err
	}
	return query.SortState{Field: field, Direction: dir}, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func requireID(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return "", apperrors.NewValidationError("id required", nil)
	}
	return id, nil
}

// writeResult renders a mutation. A created record answers 201; a failed store
// write still answers 200 with the error on the body.
func writeResult[T any](c *fiber.Ctx, res repository.Result[T]) error {
	body := dto.MutationResponse[T]{Action: string(res.Action), Reconciled: res.Reconciled}
	if res.WriteErr != nil {
		body.WriteError = res.WriteErr.Error()
	} else if res.Action != repository.ActionDeleted {
		entity := res.Entity
		body.Data = &entity
	}
	status := fiber.StatusOK
	if res.Action == repository.ActionCreated && res.WriteErr == nil {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(body)
}

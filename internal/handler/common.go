package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// bindAndValidate binds the request body into dst and runs the echo validator.
// Failures come back as 400 HTTPErrors for echo to render.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return err
	}
	return nil
}

// rowLabel converts a 1-based row index into a spreadsheet style label:
// 1 -> A, 26 -> Z, 27 -> AA.
func rowLabel(rowIndex int) string {
	i := rowIndex - 1
	if i < 0 {
		return ""
	}
	res := []rune{}
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

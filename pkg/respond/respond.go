package respond

import "github.com/labstack/echo/v4"

// Every endpoint answers with the same envelope:
// {"status":"success"|"error", "message"?, "data"?, "errors"?}.

func Success(c echo.Context, code int, data echo.Map) error {
	body := echo.Map{"status": "success"}
	for k, v := range data {
		body[k] = v
	}
	return c.JSON(code, body)
}

func Message(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{
		"status":  "success",
		"message": message,
	})
}

func Error(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{
		"status":  "error",
		"message": message,
	})
}

// FieldErrors reports validation failures as a field -> message map.
func FieldErrors(c echo.Context, code int, errs map[string]string) error {
	return c.JSON(code, echo.Map{
		"status": "error",
		"errors": errs,
	})
}

package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response は統一レスポンス構造を定義します
type Response struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta"`
}

// Meta はメタ情報を定義します
type Meta struct {
	Message string `json:"message,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// OK は成功レスポンスを返します
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: nil,
	})
}

// Created は作成成功レスポンスを返します
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Data: data,
		Meta: nil,
	})
}

// List は件数メタ付きの一覧レスポンスを返します
func List(c echo.Context, data interface{}, count int) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: Meta{Count: count},
	})
}

// NoContent はコンテンツなしレスポンスを返します
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/viper"
)

func endpoint() string {
	return viper.GetString("endpoint")
}

func postJSON(path string, body any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	resp, err := http.Post(endpoint()+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s: %w", endpoint(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

func getJSON(path string) ([]byte, int, error) {
	resp, err := http.Get(endpoint() + path)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s: %w", endpoint(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

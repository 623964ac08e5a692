package util

import (
	"Milestone/internal/api/config"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"time"
)

const SuccessResp = "0"

// SendSms 调用短信网关发送通知短信
func SendSms(phone string, content string) error {
	smsCfg := config.Cfg.SMS
	escaped := url.QueryEscape(fmt.Sprintf("【Milestone】%s", content))
	fullUrl := fmt.Sprintf("%s?u=%s&p=%s&m=%s&c=%s", smsCfg.URL, smsCfg.Username, smsCfg.ApiKey, phone, escaped)

	log.Info(fmt.Sprintf("调用短信接口: %s", smsCfg.URL))

	client := http.Client{Timeout: 10 * time.Second}
	request, err := http.NewRequest(http.MethodGet, fullUrl, nil)
	if err != nil {
		return err
	}
	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("sms send failed: %s", response.Status)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if string(body) != SuccessResp {
		return fmt.Errorf("sms send failed: response code %s", string(body))
	}
	return nil
}

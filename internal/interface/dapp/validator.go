package dapp

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"flightsurety-service/pkg/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations adds the ether amount validation to gin's validator
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = v.RegisterValidation("ether", func(fl validator.FieldLevel) bool {
			_, convErr := utils.EtherToWei(fl.Field().String())
			return convErr == nil
		})
	})
	return err
}

// bindingMessage turns validator errors into a short readable message
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "eth_addr":
			msgs = append(msgs, fmt.Sprintf("%s must be an ethereum address", fe.Field()))
		case "ether":
			msgs = append(msgs, fmt.Sprintf("%s must be an ether amount", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

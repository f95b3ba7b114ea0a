package calculator

// CalcRequest is the JSON body for POST /calculate.
//
// Operands are pointers so a missing number can be told apart from zero.
type CalcRequest struct {
	Operation string   `json:"operation"`
	Number1   *float64 `json:"number1" validate:"required"`
	Number2   *float64 `json:"number2" validate:"required"`
}

// CalcResponse is the success body for POST /calculate.
type CalcResponse struct {
	Result float64 `json:"result"`
}

// ErrorResponse is the body of every 4xx answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

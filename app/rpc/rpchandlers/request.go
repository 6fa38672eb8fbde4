package rpchandlers

import (
	"encoding/json"
	"net/http"

	"github.com/moecoin/moecoind/app/rpc/rpccontext"
)

func decodeRequestBody(request *http.Request, body interface{}) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(body)
	if err != nil {
		return rpccontext.NewBadRequestError("Could not parse the request body: %s", err)
	}
	return nil
}

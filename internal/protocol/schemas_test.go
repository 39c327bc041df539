package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	resetSchema := compile("reset.schema.json")
	obsSchema := compile("obs.schema.json")
	actSchema := compile("act.schema.json")
	stepSchema := compile("step.schema.json")
	errorSchema := compile("error.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"trainer1"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"S1",
	  "session_params":{
	    "tick_rate_hz":10,
	    "width":10,
	    "height":10,
	    "num_agents":2,
	    "action_space_size":9,
	    "max_steps":1000,
	    "min_pollution":0,
	    "max_pollution":100,
	    "seed":42
	  },
	  "catalog":{"digest":"deadbeef","count":3}
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var reset any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESET",
	  "protocol_version":"1.0",
	  "seed":1337
	}`), &reset)
	validate(resetSchema, reset)

	var obs any
	_ = json.Unmarshal([]byte(`{
	  "type":"OBS",
	  "protocol_version":"1.0",
	  "episode":1,
	  "step":0,
	  "state":{
	    "width":2,
	    "height":1,
	    "average_pollution":50,
	    "cells":[
	      {"row":0,"col":0,"cell_type":"GROUND","pollution":50,
	       "flower":{"flower_type":0,"owner":0,"stage":1}},
	      {"row":0,"col":1,"cell_type":"OBSTACLE","pollution":0}
	    ],
	    "agents":[
	      {"id":0,"row":0,"col":0,"money":10.5,"seeds":[2,-1],
	       "flowers_planted":[1,0],"flowers_harvested":[0,0],
	       "turns_without_income":3}
	    ]
	  },
	  "masks":{"0":[false,false,false,false,true,true,false,true]}
	}`), &obs)
	validate(obsSchema, obs)

	var act any
	_ = json.Unmarshal([]byte(`{
	  "type":"ACT",
	  "protocol_version":"1.0",
	  "step":0,
	  "actions":{"0":5,"1":6}
	}`), &act)
	validate(actSchema, act)

	var step any
	_ = json.Unmarshal([]byte(`{
	  "type":"STEP",
	  "protocol_version":"1.0",
	  "step":1,
	  "rewards":{
	    "0":{"components":{"ecology":-0.01,"wellbeing":-0.1,"biodiversity":0},"total":-0.0366}
	  },
	  "truncated":false,
	  "info":{"average_pollution":51,"flowers":{"0":1}}
	}`), &step)
	validate(stepSchema, step)

	var errMsg any
	_ = json.Unmarshal([]byte(`{
	  "type":"ERROR",
	  "protocol_version":"1.0",
	  "code":"E_ILLEGAL_ACTION",
	  "message":"agent 0: illegal action 4: no flower at the agent's cell"
	}`), &errMsg)
	validate(errorSchema, errMsg)
}

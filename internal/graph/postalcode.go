package graph

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
	"github.com/graphql-go/graphql/language/visitor"
)

// postalCodeScalar takes a ZIP code written either as an Int (10001) or as a
// String ("02134"). Ints are printed without padding, so 1234 stays four
// digits and fails validation downstream.
var postalCodeScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "PostalCode",
	Description: "Five-digit US ZIP code, as an Int or a String.",
	Serialize:   postalCodeText,
	ParseValue:  postalCodeText,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		switch v := valueAST.(type) {
		case *ast.IntValue:
			return v.Value
		case *ast.StringValue:
			return v.Value
		default:
			return nil
		}
	},
})

// postalCodeText returns the textual ZIP for v, or nil when v is neither a
// string nor an integral number.
func postalCodeText(v interface{}) interface{} {
	switch n := v.(type) {
	case string:
		return n
	case *string:
		if n == nil {
			return nil
		}
		return *n
	case int:
		return strconv.Itoa(n)
	case int32:
		return strconv.Itoa(int(n))
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return nil
		}
		return strconv.Itoa(int(n))
	default:
		return nil
	}
}

// validationRules are graphql.SpecifiedRules with the variable position
// check replaced by variablesInAllowedPosition.
var validationRules = func() []graphql.ValidationRuleFn {
	rules := make([]graphql.ValidationRuleFn, 0, len(graphql.SpecifiedRules))
	for _, rule := range graphql.SpecifiedRules {
		if reflect.ValueOf(rule).Pointer() == reflect.ValueOf(graphql.VariablesInAllowedPositionRule).Pointer() {
			rule = variablesInAllowedPosition
		}
		rules = append(rules, rule)
	}
	return rules
}()

// variablesInAllowedPosition checks that every variable is used where its
// declared type fits, as the stock rule does, and also lets Int and String
// variables feed a PostalCode argument.
func variablesInAllowedPosition(ctx *graphql.ValidationContext) *graphql.ValidationRuleInstance {
	leave := func(p visitor.VisitFuncParams) (string, interface{}) {
		op, ok := p.Node.(*ast.OperationDefinition)
		if !ok {
			return visitor.ActionNoChange, nil
		}

		defs := make(map[string]*ast.VariableDefinition, len(op.VariableDefinitions))
		for _, def := range op.VariableDefinitions {
			if def != nil && def.Variable != nil && def.Variable.Name != nil {
				defs[def.Variable.Name.Value] = def
			}
		}

		for _, usage := range ctx.RecursiveVariableUsages(op) {
			if usage == nil || usage.Node == nil || usage.Node.Name == nil || usage.Type == nil {
				continue
			}
			name := usage.Node.Name.Value
			def, ok := defs[name]
			if !ok {
				continue
			}

			varType := typeFromAST(ctx.Schema(), def.Type)
			if varType == nil {
				continue
			}
			if _, nonNull := varType.(*graphql.NonNull); def.DefaultValue != nil && !nonNull {
				varType = graphql.NewNonNull(varType)
			}

			if !allowedIn(varType, usage.Type) {
				ctx.ReportError(gqlerrors.NewError(
					fmt.Sprintf(`Variable "$%v" of type "%v" used in position expecting type "%v".`, name, varType, usage.Type),
					[]ast.Node{def, usage.Node}, "", nil, []int{}, nil))
			}
		}
		return visitor.ActionNoChange, nil
	}

	return &graphql.ValidationRuleInstance{
		VisitorOpts: &visitor.VisitorOptions{
			KindFuncMap: map[string]visitor.NamedVisitFuncs{
				kinds.OperationDefinition: {Leave: leave},
			},
		},
	}
}

func typeFromAST(schema *graphql.Schema, t ast.Type) graphql.Type {
	switch t := t.(type) {
	case *ast.NonNull:
		if inner := typeFromAST(schema, t.Type); inner != nil {
			return graphql.NewNonNull(inner)
		}
	case *ast.List:
		if inner := typeFromAST(schema, t.Type); inner != nil {
			return graphql.NewList(inner)
		}
	case *ast.Named:
		if t.Name != nil {
			return schema.Type(t.Name.Value)
		}
	}
	return nil
}

func allowedIn(varType, locType graphql.Type) bool {
	if loc, ok := locType.(*graphql.NonNull); ok {
		v, ok := varType.(*graphql.NonNull)
		return ok && allowedIn(v.OfType, loc.OfType)
	}
	if v, ok := varType.(*graphql.NonNull); ok {
		return allowedIn(v.OfType, locType)
	}

	if loc, ok := locType.(*graphql.List); ok {
		v, ok := varType.(*graphql.List)
		return ok && allowedIn(v.OfType, loc.OfType)
	}
	if _, ok := varType.(*graphql.List); ok {
		return false
	}

	if varType == locType {
		return true
	}
	return locType == graphql.Type(postalCodeScalar) && (varType == graphql.Type(graphql.Int) || varType == graphql.Type(graphql.String))
}

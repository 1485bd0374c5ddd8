package server

import "html/template"

// pageTemplate главная страница с формой
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Solar Energy Forecaster</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .container { max-width: 800px; margin: 0 auto; }
        .form-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 12px; }
        .form-group label { display: block; text-transform: capitalize; }
        .form-group input.invalid { border-color: #c00; }
        .error-message { color: #c00; margin-top: 20px; }
        .prediction-result span { font-size: 2em; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <header><h1>Solar Energy Forecaster ☀️</h1></header>
        <main>
            <form method="post" action="/" class="prediction-form" id="prediction-form">
                <h2>Input Weather Conditions</h2>
                <div class="form-grid">
                {{- range .Fields}}
                    <div class="form-group">
                        <label for="{{.Key}}">{{.Label}}</label>
                        <input type="{{.Type}}" id="{{.Key}}" name="{{.Key}}" value="{{.Value}}"{{if .Step}} step="{{.Step}}"{{end}}{{if .Invalid}} class="invalid"{{end}} required>
                    </div>
                {{- end}}
                </div>
                <button type="submit" id="submit-button"{{if .ButtonDisabled}} disabled{{end}}>{{.ButtonLabel}}</button>
            </form>
            <form method="post" action="/reset"><button type="submit">Reset</button></form>

            <div class="results-container">
                {{- if .Error}}
                <div class="error-message">{{.Error}}</div>
                {{- end}}
                {{- if .Result}}
                <div class="prediction-result">
                    <h2>Prediction:</h2>
                    <p><span>{{.Result}}</span> {{.Unit}}</p>
                </div>
                {{- end}}
            </div>
        </main>
    </div>
    <script>
        document.getElementById("prediction-form").addEventListener("submit", function () {
            var button = document.getElementById("submit-button");
            button.disabled = true;
            button.textContent = "Predicting...";
        });
    </script>
</body>
</html>
`))

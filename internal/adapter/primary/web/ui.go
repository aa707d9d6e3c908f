package web

import "net/http"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Client manager</title>
    <style>
        body { font-family: sans-serif; max-width: 720px; margin: 40px auto; padding: 20px; }
        h1 { color: #333; }
        .warn { color: #c00; }
        .device { background: #f0f0f0; padding: 10px 15px; border-radius: 5px; margin: 10px 0; }
        .inverted { outline: 1px dashed #c60; }
        button { background: #007bff; color: white; border: none; padding: 6px 14px; border-radius: 5px; cursor: pointer; }
        button:hover { background: #0056b3; }
        input[type=range] { width: 60%; }
        #map { position: relative; border: 1px solid #999; margin-top: 20px; }
        .bar { position: absolute; height: 14px; background: #7ab; }
    </style>
</head>
<body>
    <h1 id="label">Client manager</h1>
    <div id="editor"></div>
    <h2>Clients</h2>
    <div id="devices"></div>
    <h2>Sector map</h2>
    <div id="map"></div>
    <script>
        async function call(method, path, body) {
            const opts = {method: method, headers: {'Content-Type': 'application/json'}};
            if (body !== undefined) opts.body = JSON.stringify(body);
            const res = await fetch(path, opts);
            return res.json();
        }

        function render(state) {
            document.getElementById('label').textContent = state.label;
            const editor = document.getElementById('editor');
            editor.innerHTML = '';
            if (!state.draft) {
                const btn = document.createElement('button');
                btn.textContent = 'new client';
                btn.onclick = async () => render(await call('POST', '/api/draft'));
                editor.appendChild(btn);
            } else {
                const name = document.createElement('input');
                name.value = state.draft.name;
                name.onchange = async () => render(await call('PATCH', '/api/draft', {name: name.value}));
                const finish = document.createElement('button');
                finish.textContent = 'finish';
                finish.onclick = async () => {
                    await call('PATCH', '/api/draft', {name: name.value});
                    render(await call('POST', '/api/draft/commit'));
                };
                const cancel = document.createElement('button');
                cancel.textContent = 'cancel';
                cancel.onclick = async () => render(await call('DELETE', '/api/draft'));
                editor.append(name, finish, cancel);
                if (state.warn) {
                    const w = document.createElement('div');
                    w.className = 'warn';
                    w.textContent = state.message;
                    editor.appendChild(w);
                }
            }

            const list = document.getElementById('devices');
            list.innerHTML = '';
            for (const d of state.devices) {
                const row = document.createElement('div');
                row.className = 'device' + (d.inverted ? ' inverted' : '');
                row.innerHTML = '<strong></strong><br>';
                row.querySelector('strong').textContent = d.name;
                for (const field of ['frequency_min', 'frequency_max']) {
                    const slider = document.createElement('input');
                    slider.type = 'range'; slider.min = 0; slider.max = 10000; slider.value = d[field];
                    const label = document.createElement('span');
                    label.textContent = (field === 'frequency_min' ? ' min range ' : ' max range ') + d[field];
                    slider.onchange = async () => {
                        const body = {}; body[field] = parseFloat(slider.value);
                        render(await call('PATCH', '/api/devices/' + d.index, body));
                    };
                    row.append(slider, label, document.createElement('br'));
                }
                const remove = document.createElement('button');
                remove.textContent = 'remove device';
                remove.onclick = async () => render(await call('DELETE', '/api/devices/' + d.index));
                row.appendChild(remove);
                list.appendChild(row);
            }
            drawMap();
        }

        async function drawMap() {
            const bars = await (await fetch('/api/sectormap')).json();
            const map = document.getElementById('map');
            map.innerHTML = '';
            map.style.height = (bars.length * 18 + 4) + 'px';
            bars.forEach((b, i) => {
                const bar = document.createElement('div');
                bar.className = 'bar';
                bar.title = b.name;
                bar.style.left = (b.offset * 100) + '%';
                bar.style.width = Math.max(b.width * 100, 0.5) + '%';
                bar.style.top = (i * 18 + 2) + 'px';
                map.appendChild(bar);
            });
        }

        (async () => render(await call('GET', '/api/state')))();
    </script>
</body>
</html>`
